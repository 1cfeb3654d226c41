package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deprecatedClassJSON = `{
	"abi": [],
	"entry_points_by_type": {"CONSTRUCTOR": [], "EXTERNAL": [], "L1_HANDLER": []},
	"program": {
		"builtins": [],
		"data": [],
		"debug_info": null,
		"hints": {},
		"identifiers": {},
		"main_scope": "__main__",
		"prime": "0x800000000000011000000000000000000000000000000000000000000000001",
		"reference_manager": {"references": []}
	}
}`

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddressCmd(t *testing.T) {
	// https://alpha-mainnet.starknet.io/feeder_gateway/get_transaction?transactionHash=0x6486c6303dba2f364c684a2e9609211c5b8e417e767f37b527cda51e776e6f0
	out, err := executeCmd(t,
		"address",
		"--class-hash", "0x46f844ea1a3b3668f81d38b5c1bd55e816e0373802aefe732138628f0133486",
		"--salt", "0x74dc2fe193daf1abd8241b63329c1123214842b96ad7fd003d25512598a956b",
		"--calldata", strings.Join([]string{
			"0x6d706cfbac9b8262d601c38251c5fbe0497c3a96cc91a92b08d91b61d9e70c4",
			"0x79dc0da7c54b95f10aa182ad0a46400db63156920adb65eca2654c0945a463",
			"0x2",
			"0x6658165b4984816ab189568637bedec5aa0a18305909c7f5726e4a16e3afef6",
			"0x6b648b36b074a91eee55730f5f5e075ec19c0a8f9ffb0903cefeee93b6ff328",
		}, ","),
	)
	require.NoError(t, err)
	assert.Equal(t, "0x3ec215c6c9028ff671b46a2a9814970ea23ed3c4bcc3838c6d1dcbf395263c3\n", out)
}

func TestAddressCmdRequiresClassHash(t *testing.T) {
	_, err := executeCmd(t, "address")
	assert.Error(t, err)
}

func TestClassHashCmd(t *testing.T) {
	classFile := filepath.Join(t.TempDir(), "class.json")
	require.NoError(t, os.WriteFile(classFile, []byte(deprecatedClassJSON), 0o600))

	out, err := executeCmd(t, "class-hash", classFile, "--verbosity", "error")
	require.NoError(t, err)
	assert.Contains(t, out, classFile+": 0x")
}

func TestClassHashCmdBadFile(t *testing.T) {
	_, err := executeCmd(t, "class-hash", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClassHashCmdConfigFile(t *testing.T) {
	dir := t.TempDir()
	classFile := filepath.Join(dir, "class.json")
	require.NoError(t, os.WriteFile(classFile, []byte(deprecatedClassJSON), 0o600))

	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("verbosity: error\nworkers: 1\n"), 0o600))

	out, err := executeCmd(t, "class-hash", classFile, "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, classFile+": 0x")
}
