package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/mitchellh/mapstructure"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starknet-go/classhash"
	"github.com/starknet-go/classhash/felt"
	"github.com/starknet-go/classhash/starknet"
	"github.com/starknet-go/classhash/utils"
)

var Version string

const (
	configF    = "config"
	verbosityF = "verbosity"
	colourF    = "colour"
	workersF   = "workers"

	callerF   = "caller"
	classF    = "class-hash"
	saltF     = "salt"
	calldataF = "calldata"

	defaultConfig = ""
	defaultColour = true

	configFlagUsage    = "The yaml configuration file."
	verbosityFlagUsage = "Verbosity of the logs. Options: debug, info, warn, error."
	colourUsage        = "Use colour in logs."
	workersUsage       = "Number of files hashed concurrently. Defaults to the CPU count."

	callerUsage   = "Address of the deploying contract, 0 for a plain deploy."
	classUsage    = "Class hash of the deployed contract."
	saltUsage     = "Deployment salt."
	calldataUsage = "Constructor calldata, one felt per value."
)

type config struct {
	Verbosity utils.LogLevel `mapstructure:"verbosity"`
	Colour    bool           `mapstructure:"colour"`
	Workers   int            `mapstructure:"workers"`
}

func NewCmd() *cobra.Command {
	var cfgFile string
	cfg := new(config)

	rootCmd := &cobra.Command{
		Use:     "classhash [command]",
		Short:   "Compute Starknet class hashes and contract addresses.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if cfgFile != "" {
				v.SetConfigType("yaml")
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return err
				}
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return v.Unmarshal(cfg, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()))
		},
	}

	defaultVerbosity := utils.INFO
	rootCmd.PersistentFlags().StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	rootCmd.PersistentFlags().Var(&defaultVerbosity, verbosityF, verbosityFlagUsage)
	rootCmd.PersistentFlags().Bool(colourF, defaultColour, colourUsage)
	rootCmd.PersistentFlags().Int(workersF, runtime.GOMAXPROCS(0), workersUsage)

	rootCmd.AddCommand(classHashCmd(cfg), casmHashCmd(cfg), addressCmd())
	return rootCmd
}

func classHashCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "class-hash [file...]",
		Short: "Compute the class hash of Cairo v0 or Sierra class definition files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return hashFiles(cmd, cfg, args, func(definition json.RawMessage) (*felt.Felt, error) {
				hash, err := classhash.ComputeFromJSON(definition)
				if err != nil {
					return nil, err
				}
				return (*felt.Felt)(hash), nil
			})
		},
	}
}

func casmHashCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "casm-hash [file...]",
		Short: "Compute the compiled class hash of CASM class files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return hashFiles(cmd, cfg, args, func(definition json.RawMessage) (*felt.Felt, error) {
				var class starknet.CasmClass
				if err := json.Unmarshal(definition, &class); err != nil {
					return nil, err
				}
				hash, err := classhash.ComputeCasmClassHash(&class)
				if err != nil {
					return nil, err
				}
				return (*felt.Felt)(hash), nil
			})
		},
	}
}

func addressCmd() *cobra.Command {
	var callerStr, classStr, saltStr string
	var calldataStrs []string

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Compute the deterministic address of a contract deployment.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := new(felt.Felt).SetString(callerStr)
			if err != nil {
				return fmt.Errorf("invalid caller: %w", err)
			}
			class, err := new(felt.Felt).SetString(classStr)
			if err != nil {
				return fmt.Errorf("invalid class hash: %w", err)
			}
			salt, err := new(felt.Felt).SetString(saltStr)
			if err != nil {
				return fmt.Errorf("invalid salt: %w", err)
			}
			calldata := make([]*felt.Felt, len(calldataStrs))
			for i, s := range calldataStrs {
				if calldata[i], err = new(felt.Felt).SetString(s); err != nil {
					return fmt.Errorf("invalid calldata value %q: %w", s, err)
				}
			}

			address := classhash.ContractAddress(caller, class, salt, calldata)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), address.String())
			return err
		},
	}

	cmd.Flags().StringVar(&callerStr, callerF, "0x0", callerUsage)
	cmd.Flags().StringVar(&classStr, classF, "", classUsage)
	cmd.Flags().StringVar(&saltStr, saltF, "0x0", saltUsage)
	cmd.Flags().StringSliceVar(&calldataStrs, calldataF, nil, calldataUsage)
	if err := cmd.MarkFlagRequired(classF); err != nil {
		panic(err)
	}
	return cmd
}

// hashFiles hashes every file concurrently and prints the results in the
// order the files were given.
func hashFiles(cmd *cobra.Command, cfg *config, paths []string, hashFn func(json.RawMessage) (*felt.Felt, error)) error {
	log, err := utils.NewZapLogger(cfg.Verbosity, cfg.Colour)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	hashes := make([]*felt.Felt, len(paths))
	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for i, path := range paths {
		p.Go(func() error {
			definition, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			log.Debugw("Hashing class definition", "path", path, "size", len(definition))
			hash, err := hashFn(definition)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			hashes[i] = hash
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, hashes[i]); err != nil {
			return err
		}
	}
	return nil
}
