package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modkit-labs/modkit/internal/catalog"
	"github.com/modkit-labs/modkit/internal/config"
	"github.com/modkit-labs/modkit/internal/issue"
)

var configRoot string

func init() {
	configCmd.PersistentFlags().StringVar(&configRoot, "root", "", "project root whose files take part in get and list")
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write modkit configuration stored at ~/.modkit/config.yaml.

Values are layered: built-in defaults, the user config file, the project's
.modkit.yaml and .modkit.env, MODKIT_* environment variables, then flags.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the user config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.ToLower(args[0]), args[1]
		if err := config.Set(configFile, key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		if !config.IsKey(key) {
			return issue.New(issue.InvalidInput, "read configuration",
				fmt.Sprintf("unknown key %q", key)).
				WithSuggestion("Run 'modkit config list' to see the known keys")
		}
		values, err := effectiveValues()
		if err != nil {
			return err
		}
		fmt.Println(values[key])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every key with its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := effectiveValues()
		if err != nil {
			return err
		}
		for _, key := range config.Keys() {
			fmt.Printf("%s = %s\n", key, values[key])
		}
		return nil
	},
}

// effectiveValues renders every key as the scaffold command would see it.
// The SDK pair includes the version catalog fallback.
func effectiveValues() (map[string]string, error) {
	root, err := resolveRoot(configRoot)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(root)
	if err != nil {
		logger.Warn("ignoring version catalog", "err", err)
		cat = nil
	}

	values := make(map[string]string)
	for _, key := range config.Keys() {
		values[key] = cfg.String(key)
	}
	compileSdk, minSdk := cfg.SDK(cat)
	values[config.KeySDKCompile] = strconv.Itoa(compileSdk)
	values[config.KeySDKMin] = strconv.Itoa(minSdk)
	return values, nil
}
