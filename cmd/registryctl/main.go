// Copyright 2025 Certen Protocol
//
// Command registryctl is the operator CLI for the asset registry:
// verify asset JSON offline against a chain indexer, submit a new
// asset to a running registry, and print a contract's canonical
// serialization or hash.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Blockstream/asset-registry/pkg/assetid"
	"github.com/Blockstream/asset-registry/pkg/chainquery"
	"github.com/Blockstream/asset-registry/pkg/contract"
	"github.com/Blockstream/asset-registry/pkg/entitylink"
	"github.com/Blockstream/asset-registry/pkg/registryclient"
	"github.com/Blockstream/asset-registry/pkg/validator"
)

func main() {
	root := &cobra.Command{
		Use:   "registryctl",
		Short: "Operate on a Liquid-style confidential asset registry",
	}

	root.AddCommand(newVerifyAssetCmd())
	root.AddCommand(newRegisterAssetCmd())
	root.AddCommand(newContractJSONCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVerifyAssetCmd() *cobra.Command {
	var esploraURL string
	var devMode bool

	cmd := &cobra.Command{
		Use:   "verify-asset <json>...",
		Short: "Verify asset associations against an on-chain indexer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain := chainquery.New(esploraURL)
			linker := entitylink.New(devMode)
			v := validator.New(chain, linker, nil)

			failed := false
			for _, raw := range args {
				var asset validator.Asset
				if err := json.Unmarshal([]byte(raw), &asset); err != nil {
					return fmt.Errorf("invalid asset json: %w", err)
				}
				if err := v.Verify(&asset); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s verification failed: %v\n", asset.AssetId, err)
					fmt.Printf("%s,false\n", asset.AssetId)
					failed = true
					continue
				}
				fmt.Printf("%s,true\n", asset.AssetId)
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&esploraURL, "esplora-url", "e", "https://blockstream.info/liquid/api/", "url for querying chain state using the esplora api")
	cmd.Flags().BoolVar(&devMode, "dev-mode", false, "bypass real entity-link verification (local testing only)")
	return cmd
}

func newRegisterAssetCmd() *cobra.Command {
	var registryURL string
	var assetIDHex string
	var domainMethod string

	cmd := &cobra.Command{
		Use:   "register-asset <contract-json>",
		Short: "Submit a new asset to a running registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id assetid.AssetId
			if assetIDHex != "" {
				var err error
				id, err = assetid.AssetIdFromHex(assetIDHex)
				if err != nil {
					return fmt.Errorf("invalid --asset-id: %w", err)
				}
			}

			client := registryclient.New(registryURL)
			asset, err := client.Register(registryclient.AssetRequest{
				AssetId:                  id,
				Contract:                 json.RawMessage(args[0]),
				DomainVerificationMethod: contract.DomainVerificationMethod(domainMethod),
			})
			if err != nil {
				return fmt.Errorf("asset registration failed: %w", err)
			}

			fmt.Printf("registered successfully: %s\n", asset.AssetId)
			return nil
		},
	}
	cmd.Flags().StringVarP(&registryURL, "registry-url", "r", "https://assets.blockstream.info", "registry server to submit to")
	cmd.Flags().StringVar(&assetIDHex, "asset-id", "", "the asset id this contract is claimed for")
	cmd.Flags().StringVar(&domainMethod, "domain-verification-method", "", "http or dns")
	return cmd
}

func newContractJSONCmd() *cobra.Command {
	var printHash bool

	cmd := &cobra.Command{
		Use:   "contract-json <json>",
		Short: "Print contract json in canonical serialization (sorted), or its hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := json.RawMessage(args[0])
			if printHash {
				hash, err := contract.ComputeHash(raw)
				if err != nil {
					return err
				}
				fmt.Println(hash.String())
				return nil
			}

			canon, err := contract.CanonicalJSON(raw)
			if err != nil {
				return err
			}
			fmt.Println(string(canon))
			return nil
		},
	}
	cmd.Flags().BoolVar(&printHash, "hash", false, "print contract hash (sha256) instead of canonical json")
	return cmd
}
