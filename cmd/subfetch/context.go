package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"subfetch/internal/config"
	"subfetch/internal/osdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// dialClient builds the XML-RPC client from the effective configuration.
// Calls that never authenticate (the language catalog) work with whatever
// credentials are stored, including none.
func (c *commandContext) dialClient() (*osdb.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return osdb.New(osdb.Config{
		Endpoint:  cfg.Server.Endpoint,
		UserAgent: cfg.Server.UserAgent,
		Username:  cfg.Server.Username,
		Password:  cfg.Server.Password,
	})
}

// dialAuthenticatedClient is dialClient for the retrieval path, which will
// log in: an account without a stored password is prompted for one without
// echo when the session is interactive.
func (c *commandContext) dialAuthenticatedClient(interactive bool) (*osdb.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	password := cfg.Server.Password
	if cfg.Server.Username != "" && password == "" {
		if !interactive {
			return nil, fmt.Errorf("no password stored for %s and stdin is not a terminal", cfg.Server.Username)
		}
		password, err = promptPassword(cfg.Server.Username)
		if err != nil {
			return nil, err
		}
	}

	return osdb.New(osdb.Config{
		Endpoint:  cfg.Server.Endpoint,
		UserAgent: cfg.Server.UserAgent,
		Username:  cfg.Server.Username,
		Password:  password,
	})
}

func promptPassword(username string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
