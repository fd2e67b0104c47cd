package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/branched-services/go-uintstore"
)

const envPrefix = "UINTSTORE_"

// app carries state shared by all subcommands.
type app struct {
	cfg          uintstore.Config
	passwordFile string
	logger       *zap.Logger
}

func newRootCmd() *cobra.Command {
	root, _ := newApp()
	return root
}

// newApp builds the command tree and returns the app its flags are bound to.
func newApp() (*cobra.Command, *app) {
	a := &app{cfg: uintstore.DefaultConfig()}

	root := &cobra.Command{
		Use:   "uintstore",
		Short: "Read and write the uint256 stored in a deployed contract",
		Long: `uintstore talks to a contract exposing myUint() and setMyUint(uint256).

Every flag can also be set through an environment variable named
UINTSTORE_<FLAG>, e.g. UINTSTORE_RPC_URL or UINTSTORE_ADDRESS.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			return a.loadPassphrase(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.RPCURL, "rpc-url", envString("RPC_URL", a.cfg.RPCURL), "JSON-RPC endpoint of the node")
	f.StringVar(&a.cfg.Address, "address", envString("ADDRESS", ""), "deployed contract address")
	f.StringVar(&a.cfg.ArtifactPath, "abi", envString("ABI", ""), "ABI or compiler artifact file (default: built-in storage ABI)")
	f.StringSliceVar(&a.cfg.PrivateKeys, "private-key", envList("PRIVATE_KEY"), "hex private key to sign with (repeatable)")
	f.StringVar(&a.cfg.KeystoreDir, "keystore", envString("KEYSTORE", ""), "keystore directory to sign with")
	f.StringVar(&a.passwordFile, "password-file", envString("PASSWORD_FILE", ""), "file holding the keystore passphrase")
	f.Uint64Var(&a.cfg.GasLimit, "gas-limit", envUint("GAS_LIMIT", 0), "fixed gas limit for transactions (0 estimates)")
	f.BoolVar(&a.cfg.Pending, "pending", envBool("PENDING", false), "read from the pending state")
	f.DurationVar(&a.cfg.Timeout, "timeout", envDuration("TIMEOUT", a.cfg.Timeout), "deadline for the whole command")
	f.StringVar(&a.cfg.LogLevel, "log-level", envString("LOG_LEVEL", a.cfg.LogLevel), "log level (debug, info, warn, error)")
	f.StringVarP(&a.cfg.Output, "output", "o", envString("OUTPUT", a.cfg.Output), "report format (text, json)")

	root.AddCommand(
		newRunCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newAccountsCmd(a),
	)
	return root, a
}

// open connects using the current config, bounded by the configured timeout.
func (a *app) open(cmd *cobra.Command) (context.Context, context.CancelFunc, *uintstore.Session, error) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if a.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(cmd.Context(), a.cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(cmd.Context())
	}

	session, err := uintstore.Open(ctx, a.cfg)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	a.logger.Debug("connected",
		zap.String("rpc", a.cfg.RPCURL),
		zap.String("contract", session.Contract.Address().Hex()))
	return ctx, cancel, session, nil
}

func (a *app) reporter(cmd *cobra.Command) uintstore.Reporter {
	if a.cfg.Output == uintstore.OutputJSON {
		return uintstore.JSONReporter{W: cmd.OutOrStdout()}
	}
	return uintstore.TextReporter{W: cmd.OutOrStdout()}
}

// loadPassphrase resolves the keystore passphrase from a file, the
// environment or an interactive prompt, in that order.
func (a *app) loadPassphrase(cmd *cobra.Command) error {
	if a.cfg.KeystoreDir == "" {
		return nil
	}
	if a.passwordFile != "" {
		data, err := os.ReadFile(a.passwordFile)
		if err != nil {
			return fmt.Errorf("read password file: %w", err)
		}
		a.cfg.Passphrase = strings.TrimRight(string(data), "\r\n")
		return nil
	}
	if p, ok := os.LookupEnv(envPrefix + "PASSPHRASE"); ok {
		a.cfg.Passphrase = p
		return nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return fmt.Errorf("keystore passphrase required: use --password-file or %sPASSPHRASE", envPrefix)
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Keystore passphrase: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	a.cfg.Passphrase = string(pass)
	return nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

func envString(name, def string) string {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		return v
	}
	return def
}

func envList(name string) []string {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func envUint(name string, def uint64) uint64 {
	if v, err := strconv.ParseUint(os.Getenv(envPrefix+name), 10, 64); err == nil {
		return v
	}
	return def
}

func envBool(name string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(envPrefix + name)); err == nil {
		return v
	}
	return def
}

func envDuration(name string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(envPrefix + name)); err == nil {
		return v
	}
	return def
}
