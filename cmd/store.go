package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/wheelkit/cli/pkg/store"
	"github.com/wheelkit/cli/pkg/util"
)

// StoreCmd handles key-value store operations.
type StoreCmd struct {
	acc     *store.Accessor
	globals *store.Globals
}

func newStoreCmd(s store.Store) StoreCmd {
	acc := store.NewAccessor(s)
	return StoreCmd{acc: acc, globals: store.NewGlobals(acc)}
}

// StoreGetInput holds input for reading a key.
type StoreGetInput struct {
	Key  string
	JSON bool
}

// Get prints the value stored under a key.
func (c StoreCmd) Get(ctx context.Context, in StoreGetInput) error {
	if in.JSON {
		var v any
		ok, err := c.acc.GetJSON(ctx, in.Key, &v)
		if err != nil {
			return err
		}
		if !ok {
			pterm.Warning.Printfln("No value stored for %q", in.Key)
			return nil
		}
		return printJSON(v)
	}

	v, ok, err := c.acc.Get(ctx, in.Key)
	if err != nil {
		return err
	}
	if !ok {
		pterm.Warning.Printfln("No value stored for %q", in.Key)
		return nil
	}
	pterm.Println(v)
	return nil
}

// StoreSetInput holds input for writing a key.
type StoreSetInput struct {
	Key   string
	Value string
	JSON  bool
}

// Set stores a value. With JSON the value must parse and is stored in its
// compact encoding.
func (c StoreCmd) Set(ctx context.Context, in StoreSetInput) error {
	var content any = in.Value
	if in.JSON {
		var v any
		if err := json.Unmarshal([]byte(in.Value), &v); err != nil {
			return fmt.Errorf("value is not valid JSON: %w", err)
		}
		content = v
	}
	if err := c.acc.Set(ctx, in.Key, content); err != nil {
		return err
	}
	pterm.Success.Printfln("Stored %q", in.Key)
	return nil
}

// Remove deletes a key.
func (c StoreCmd) Remove(ctx context.Context, key string) error {
	if err := c.acc.Remove(ctx, key); err != nil {
		return err
	}
	pterm.Success.Printfln("Removed %q", key)
	return nil
}

// StoreClearInput holds input for clearing the store.
type StoreClearInput struct {
	Yes bool
}

// Clear removes every key after confirmation.
func (c StoreCmd) Clear(ctx context.Context, in StoreClearInput) error {
	if !in.Yes {
		ok, err := pterm.DefaultInteractiveConfirm.Show("Remove every stored value?")
		if err != nil {
			return err
		}
		if !ok {
			pterm.Info.Println("Nothing removed")
			return nil
		}
	}
	if err := c.acc.RemoveAll(ctx); err != nil {
		return err
	}
	pterm.Success.Println("Store cleared")
	return nil
}

// List prints the stored keys with their value sizes.
func (c StoreCmd) List(ctx context.Context, output string) error {
	keys, err := c.acc.Store().Keys(ctx)
	if err != nil {
		return err
	}
	if output == "json" {
		return printJSON(keys)
	}
	if len(keys) == 0 {
		pterm.Info.Println("Store is empty")
		return nil
	}

	rows := pterm.TableData{{"Key", "Size"}}
	for _, k := range keys {
		v, _, err := c.acc.Get(ctx, k)
		if err != nil {
			return err
		}
		rows = append(rows, []string{k, util.FormatBytes(int64(len(v)))})
	}
	PrintTableNoPad(rows, true)
	return nil
}

// StoreTokenInput holds input for the token subcommand.
type StoreTokenInput struct {
	Token string
	Clear bool
}

// Token stores, clears or describes the session token.
func (c StoreCmd) Token(ctx context.Context, in StoreTokenInput) error {
	switch {
	case in.Clear:
		if err := c.globals.SetToken(ctx, ""); err != nil {
			return err
		}
		pterm.Success.Println("Token removed")
		return nil
	case in.Token != "":
		if err := c.globals.SetToken(ctx, in.Token); err != nil {
			return err
		}
		pterm.Success.Println("Token stored")
		return nil
	}

	claims, err := c.globals.TokenClaims(ctx)
	if errors.Is(err, store.ErrNoToken) {
		pterm.Info.Println("No token stored")
		return nil
	}
	if err != nil {
		tok, _ := c.globals.Token(ctx)
		pterm.Warning.Printfln("Stored token is not a JWT (%d characters)", len(tok))
		return nil
	}

	keys := lo.Keys(claims)
	sort.Strings(keys)
	rows := pterm.TableData{{"Claim", "Value"}}
	for _, k := range keys {
		rows = append(rows, []string{k, claimText(k, claims[k])})
	}
	PrintTableNoPad(rows, true)
	return nil
}

func claimText(key string, v any) string {
	switch key {
	case "exp", "iat", "nbf":
		if f, ok := v.(float64); ok {
			return time.Unix(int64(f), 0).UTC().Format(time.RFC3339)
		}
	}
	if s, ok := v.(string); ok {
		return util.OrDash(s)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// StoreButtonsInput holds input for the permission buttons subcommand.
type StoreButtonsInput struct {
	Buttons []string
	Clear   bool
}

// Buttons stores, clears or lists the permission button codes.
func (c StoreCmd) Buttons(ctx context.Context, in StoreButtonsInput) error {
	switch {
	case in.Clear:
		if err := c.globals.SetPermissionButtons(ctx, nil); err != nil {
			return err
		}
		pterm.Success.Println("Permission buttons removed")
		return nil
	case len(in.Buttons) > 0:
		if err := c.globals.SetPermissionButtons(ctx, lo.Uniq(in.Buttons)); err != nil {
			return err
		}
		pterm.Success.Printfln("Stored %d permission buttons", len(lo.Uniq(in.Buttons)))
		return nil
	}

	buttons, err := c.globals.PermissionButtons(ctx)
	if err != nil {
		return err
	}
	if len(buttons) == 0 {
		pterm.Info.Println("No permission buttons stored")
		return nil
	}
	for _, b := range buttons {
		pterm.Println(b)
	}
	return nil
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Read and write the persistent key-value store",
	Long: `Read and write the persistent key-value store. The backend (file, keyring,
sqlite or memory) comes from the store section of the config.`,
}

var storeGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored value",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoreSet,
}

var storeRmCmd = &cobra.Command{
	Use:     "rm <key>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a stored value",
	Args:    cobra.ExactArgs(1),
	RunE:    runStoreRm,
}

var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored value",
	Args:  cobra.NoArgs,
	RunE:  runStoreClear,
}

var storeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored keys",
	Args:    cobra.NoArgs,
	RunE:    runStoreList,
}

var storeTokenCmd = &cobra.Command{
	Use:   "token [token]",
	Short: "Store the session token, or show the claims of the stored one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStoreToken,
}

var storeButtonsCmd = &cobra.Command{
	Use:   "buttons [code...]",
	Short: "Store permission button codes, or list the stored ones",
	RunE:  runStoreButtons,
}

func init() {
	storeGetCmd.Flags().Bool("json", false, "Decode the value as JSON and pretty-print it")
	storeSetCmd.Flags().Bool("json", false, "Parse the value as JSON before storing")
	storeClearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	storeListCmd.Flags().StringP("output", "o", "", "Output format (json)")
	storeTokenCmd.Flags().Bool("clear", false, "Remove the stored token")
	storeButtonsCmd.Flags().Bool("clear", false, "Remove the stored buttons")

	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeSetCmd)
	storeCmd.AddCommand(storeRmCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeTokenCmd)
	storeCmd.AddCommand(storeButtonsCmd)
}

// withStore opens the configured store, runs fn and closes the store.
func withStore(cmd *cobra.Command, fn func(StoreCmd) error) error {
	s, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(newStoreCmd(s))
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	return withStore(cmd, func(c StoreCmd) error {
		return c.Get(cmd.Context(), StoreGetInput{Key: args[0], JSON: asJSON})
	})
}

func runStoreSet(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	return withStore(cmd, func(c StoreCmd) error {
		return c.Set(cmd.Context(), StoreSetInput{Key: args[0], Value: args[1], JSON: asJSON})
	})
}

func runStoreRm(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(c StoreCmd) error {
		return c.Remove(cmd.Context(), args[0])
	})
}

func runStoreClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	return withStore(cmd, func(c StoreCmd) error {
		return c.Clear(cmd.Context(), StoreClearInput{Yes: yes})
	})
}

func runStoreList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	return withStore(cmd, func(c StoreCmd) error {
		return c.List(cmd.Context(), output)
	})
}

func runStoreToken(cmd *cobra.Command, args []string) error {
	in := StoreTokenInput{}
	in.Clear, _ = cmd.Flags().GetBool("clear")
	if len(args) > 0 {
		in.Token = args[0]
	}
	return withStore(cmd, func(c StoreCmd) error {
		return c.Token(cmd.Context(), in)
	})
}

func runStoreButtons(cmd *cobra.Command, args []string) error {
	in := StoreButtonsInput{Buttons: args}
	in.Clear, _ = cmd.Flags().GetBool("clear")
	return withStore(cmd, func(c StoreCmd) error {
		return c.Buttons(cmd.Context(), in)
	})
}
