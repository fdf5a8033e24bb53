// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/luxfi/vaa"
	"github.com/luxfi/vaa/address"
	"github.com/luxfi/vaa/chain"
	"github.com/luxfi/vaa/layout"
	"github.com/luxfi/vaa/signer"
	"github.com/luxfi/vaa/vms/evm"

	"github.com/luxfi/vaa/governance"
	"github.com/luxfi/vaa/relayer"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	v     *viper.Viper
	cfg   Config
	log   *zap.Logger
	codec *vaa.Codec
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "vaacli",
		Short:         "Inspect, build and verify VAAs",
		Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := BuildViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := NewConfig(v)
			if err != nil {
				return err
			}
			log, err := NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			registry, err := newRegistry(log)
			if err != nil {
				return err
			}
			a.v, a.cfg, a.log = v, cfg, log
			a.codec = vaa.NewCodec(
				vaa.WithRegistry(registry),
				vaa.WithLogger(log),
			)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String(LogLevelKey, defaultLogLevel, "log level (debug, info, warn, error)")
	pf.String(LiteralKey, vaa.RawBytes, "payload literal")
	pf.Int(CacheSizeKey, defaultCacheSize, "number of parsed VAAs kept by the decoder")

	root.AddCommand(
		a.decodeCmd(),
		a.hashCmd(),
		a.literalsCmd(),
		a.createCmd(),
		a.verifyCmd(),
	)
	return root
}

// newRegistry builds a registry holding every payload the CLI knows, logging
// registrations through log.
func newRegistry(log *zap.Logger) (*vaa.Registry, error) {
	r := vaa.NewRegistry(vaa.WithRegistryLogger(log.Named("registry")))
	if err := governance.Register(r); err != nil {
		return nil, err
	}
	if err := relayer.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode VAAs given as hex arguments or one per line on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			parser := vaa.NewCachingParser(a.codec, a.cfg.CacheSize)
			for _, in := range inputs {
				raw, err := hexutil.Decode(withPrefix(in))
				if err != nil {
					return fmt.Errorf("invalid hex: %w", err)
				}
				v, err := parser.Parse(a.cfg.Literal, raw)
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), describe(v)); err != nil {
					return err
				}
			}
			a.log.Debug("decoded VAAs",
				zap.Int("inputs", len(inputs)),
				zap.Int("unique", parser.Len()),
			)
			return nil
		},
	}
}

func (a *app) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <hex>",
		Short: "Print the body hash, id and EVM signing digest of a VAA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.codec.DeserializeHex(a.cfg.Literal, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"hash":          v.Hash.Hex(),
				"id":            v.ID().String(),
				"signingDigest": evm.SigningDigest(v).Hex(),
			})
		},
	}
}

func (a *app) literalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "literals",
		Short: "List the registered payload literals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, literal := range a.codec.Registry().Literals() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), literal); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <payload-hex>",
		Short: "Build a RawBytes VAA, optionally signed by local guardian keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := hexutil.Decode(withPrefix(args[0]))
			if err != nil {
				return fmt.Errorf("invalid payload hex: %w", err)
			}
			env, err := a.envelope()
			if err != nil {
				return err
			}
			v, err := a.codec.Create(vaa.RawBytes, env, payload)
			if err != nil {
				return err
			}
			if keys := a.v.GetStringSlice(GuardianKeysKey); len(keys) > 0 {
				if err := signWith(cmd, v, keys); err != nil {
					return err
				}
			}
			raw, err := a.codec.Serialize(v)
			if err != nil {
				return err
			}
			a.log.Info("created VAA",
				zap.Stringer("vaa", v),
				zap.Int("signatures", len(v.Signatures)),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(raw))
			return err
		},
	}
	f := cmd.Flags()
	f.String(EmitterChainKey, chain.Ethereum.String(), "emitter chain name or number")
	f.String(EmitterAddressKey, "", "emitter address, universal hex or native format")
	f.Uint64(SequenceKey, 0, "sequence number")
	f.Uint32(NonceKey, 0, "nonce")
	f.Uint32(TimestampKey, 0, "timestamp in seconds")
	f.Uint8(ConsistencyKey, 0, "consistency level")
	f.StringSlice(GuardianKeysKey, nil, "hex secp256k1 keys of guardians 0..n-1")
	return cmd
}

func (a *app) envelope() (vaa.Envelope, error) {
	c, err := parseChain(a.v.GetString(EmitterChainKey))
	if err != nil {
		return vaa.Envelope{}, err
	}
	env := vaa.Envelope{
		Timestamp:        a.v.GetUint32(TimestampKey),
		Nonce:            a.v.GetUint32(NonceKey),
		EmitterChain:     c,
		Sequence:         a.v.GetUint64(SequenceKey),
		ConsistencyLevel: uint8(a.v.GetUint(ConsistencyKey)),
	}
	if s := a.v.GetString(EmitterAddressKey); s != "" {
		if env.EmitterAddress, err = address.ToUniversal(c, s); err != nil {
			return vaa.Envelope{}, err
		}
	}
	return env, nil
}

func signWith(cmd *cobra.Command, v *vaa.VAA, keys []string) error {
	locals := make([]*signer.LocalSigner, len(keys))
	guardians := make([]common.Address, len(keys))
	for i, k := range keys {
		s, err := signer.LocalSignerFromHex(k)
		if err != nil {
			return fmt.Errorf("guardian key %d: %w", i, err)
		}
		locals[i] = s
		guardians[i] = s.Address()
	}
	backend := signer.NewBackend(guardians)
	indices := make([]uint8, len(locals))
	for i, s := range locals {
		if err := backend.AddSigner(uint8(i), s); err != nil {
			return err
		}
		indices[i] = uint8(i)
	}
	return backend.Sign(cmd.Context(), v, indices)
}

func (a *app) verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <hex>",
		Short: "Check the signatures of a VAA against a guardian set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.codec.DeserializeHex(a.cfg.Literal, args[0])
			if err != nil {
				return err
			}
			var guardians []common.Address
			for _, g := range a.v.GetStringSlice(GuardiansKey) {
				if !common.IsHexAddress(g) {
					return fmt.Errorf("%w: %q", address.ErrInvalidAddress, g)
				}
				guardians = append(guardians, common.HexToAddress(g))
			}
			verifier := evm.NewVerifier(a.log)
			if err := verifier.AddGuardianSet(v.GuardianSetIndex, guardians); err != nil {
				return err
			}
			if err := verifier.Verify(cmd.Context(), v); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d signatures valid\n", v, len(v.Signatures))
			return err
		},
	}
	cmd.Flags().StringSlice(GuardiansKey, nil, "guardian addresses in guardian index order")
	return cmd
}

func parseChain(s string) (chain.ID, error) {
	if id, err := chain.FromName(s); err == nil {
		return id, nil
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return chain.Unset, fmt.Errorf("%w: %q", chain.ErrUnknownChainID, s)
	}
	return chain.FromUint(n)
}

func readInputs(r io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}

func withPrefix(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func describe(v *vaa.VAA) map[string]any {
	sigs := make([]map[string]any, len(v.Signatures))
	for i, s := range v.Signatures {
		sigs[i] = map[string]any{
			"guardianIndex": s.GuardianIndex,
			"signature":     hexutil.Encode(s.Signature.Bytes()),
		}
	}
	return map[string]any{
		"version":          v.Version,
		"guardianSet":      v.GuardianSetIndex,
		"signatures":       sigs,
		"timestamp":        v.Timestamp,
		"nonce":            v.Nonce,
		"emitterChain":     v.EmitterChain.String(),
		"emitterAddress":   v.EmitterAddress.String(),
		"sequence":         v.Sequence,
		"consistencyLevel": v.ConsistencyLevel,
		"payloadLiteral":   v.PayloadLiteral,
		"payload":          render(v.Payload),
		"hash":             v.Hash.Hex(),
	}
}

// render turns decoded payload values into JSON friendly ones.
func render(val any) any {
	switch x := val.(type) {
	case layout.Record:
		out := make(map[string]any, len(x))
		for k, v := range x {
			out[k] = render(v)
		}
		return out
	case []layout.Record:
		out := make([]any, len(x))
		for i, v := range x {
			out[i] = render(v)
		}
		return out
	case []byte:
		return hexutil.Encode(x)
	case *uint256.Int:
		return x.Dec()
	case fmt.Stringer:
		return x.String()
	default:
		return x
	}
}
