// -- cmd/translate.go --
package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/api/schemas"
	"github.com/xkilldash9x/deskpilot/internal/capslock"
	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/convert"
	"github.com/xkilldash9x/deskpilot/internal/observability"
	"github.com/xkilldash9x/deskpilot/internal/parse"
	"github.com/xkilldash9x/deskpilot/internal/session"
)

var (
	translateInput   string
	translateDialect string
	translateParser  string
	translatePretty  bool
)

// translateOutput is the JSON document the translate command emits.
type translateOutput struct {
	Reason   string             `json:"reason,omitempty"`
	Stop     bool               `json:"stop"`
	Commands []string           `json:"commands"`
	Steps    []schemas.ExecStep `json:"steps"`
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate model output into executable steps.",
	Long: `Translate reads raw model output (or a JSON action array for the
claude, gemini and qwen3 dialects) and prints the executable steps as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfigFromViper(viper.GetViper())
		if err != nil {
			return err
		}
		if translateDialect == "" {
			translateDialect = cfg.Session().Dialect
		}
		if translateParser == "" {
			translateParser = cfg.Session().ParserMode
		}

		raw, err := readInput(translateInput)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		out, err := runTranslate(cfg, string(raw))
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), out)
	},
}

func init() {
	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "-", "input file ('-' for stdin)")
	translateCmd.Flags().StringVar(&translateDialect, "dialect", "", "action dialect: native, claude, gemini or qwen3")
	translateCmd.Flags().StringVar(&translateParser, "parser", "", "parser mode for the native dialect: auto, tagged or tool_call")
	translateCmd.Flags().BoolVar(&translatePretty, "pretty", false, "indent the JSON output")
	rootCmd.AddCommand(translateCmd)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(w io.Writer, out translateOutput) error {
	if out.Commands == nil {
		out.Commands = []string{}
	}
	if out.Steps == nil {
		out.Steps = []schemas.ExecStep{}
	}

	cfg := json.ConfigCompatibleWithStandardLibrary
	var (
		data []byte
		err  error
	)
	if translatePretty {
		data, err = cfg.MarshalIndent(out, "", "  ")
	} else {
		data, err = cfg.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// converterConfig maps the application config onto converter settings.
func converterConfig(cfg config.Interface) convert.Config {
	cc := cfg.Converter()
	return convert.Config{
		SandboxWidth:      cc.SandboxWidth,
		SandboxHeight:     cc.SandboxHeight,
		DragDuration:      cc.DragDuration,
		ScrollAmount:      cc.ScrollAmount,
		WaitDuration:      cc.WaitDuration,
		HotkeyInterval:    cc.HotkeyInterval,
		CapslockMode:      capslock.ParseMode(cc.CapslockMode),
		StrictCoordinates: cc.StrictCoordinates,
	}
}

// runTranslate dispatches on the selected dialect. The native dialect parses
// raw model output; the others decode a JSON action array.
func runTranslate(cfg config.Interface, raw string) (translateOutput, error) {
	logger := observability.GetLogger()
	convCfg := converterConfig(cfg)
	jsonCfg := json.ConfigCompatibleWithStandardLibrary

	switch translateDialect {
	case "", "native":
		sess := session.New(convCfg, logger,
			session.WithParserMode(parse.ParseMode(translateParser)))
		result, err := sess.Translate(raw)
		if err != nil {
			return translateOutput{}, err
		}
		return translateOutput{
			Reason:   result.Step.Reason,
			Stop:     result.Step.Stop,
			Commands: commandTexts(result.Commands),
			Steps:    result.Steps,
		}, nil

	case "claude":
		var actions []schemas.ClaudeAction
		if err := jsonCfg.UnmarshalFromString(raw, &actions); err != nil {
			return translateOutput{}, fmt.Errorf("invalid claude action JSON: %w", err)
		}
		return dialectOutput(convert.NewClaude(convCfg, logger).Convert(actions))

	case "gemini":
		var actions []schemas.GeminiAction
		if err := jsonCfg.UnmarshalFromString(raw, &actions); err != nil {
			return translateOutput{}, fmt.Errorf("invalid gemini action JSON: %w", err)
		}
		return dialectOutput(convert.NewGemini(convCfg, logger).Convert(actions))

	case "qwen3":
		var actions []schemas.Qwen3Action
		if err := jsonCfg.UnmarshalFromString(raw, &actions); err != nil {
			return translateOutput{}, fmt.Errorf("invalid qwen3 action JSON: %w", err)
		}
		return dialectOutput(convert.NewQwen3(convCfg, logger).Convert(actions))
	}

	logger.Error("unknown dialect requested", zap.String("dialect", translateDialect))
	return translateOutput{}, fmt.Errorf(
		"unknown dialect %q: expected native, claude, gemini or qwen3", translateDialect)
}

func dialectOutput(commands []convert.Command, err error) (translateOutput, error) {
	if err != nil {
		return translateOutput{}, err
	}
	steps, err := convert.ToSteps(commands)
	if err != nil {
		return translateOutput{}, err
	}
	return translateOutput{
		Stop:     containsTerminal(commands),
		Commands: commandTexts(commands),
		Steps:    steps,
	}, nil
}

func commandTexts(commands []convert.Command) []string {
	out := make([]string, len(commands))
	for i, c := range commands {
		out[i] = c.Text
	}
	return out
}

func containsTerminal(commands []convert.Command) bool {
	for _, c := range commands {
		if c.Text == convert.MarkerDone || c.Text == convert.MarkerFail {
			return true
		}
	}
	return false
}
