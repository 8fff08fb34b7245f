package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findStringFlag(flags []cli.Flag, name string) *cli.StringFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findUint64Flag(flags []cli.Flag, name string) *cli.Uint64Flag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.Uint64Flag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestServiceFlags(t *testing.T) {
	flags := serviceFlags()

	t.Run("db is required", func(t *testing.T) {
		dbFlag := findStringFlag(flags, "db")
		require.NotNil(t, dbFlag)
		assert.True(t, dbFlag.Required)
		assert.Contains(t, dbFlag.Aliases, "d")
	})

	t.Run("tenant is required", func(t *testing.T) {
		tenantFlag := findUint64Flag(flags, "tenant")
		require.NotNil(t, tenantFlag)
		assert.True(t, tenantFlag.Required)
	})

	t.Run("host has a local default", func(t *testing.T) {
		hostFlag := findStringFlag(flags, "host")
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("models have defaults", func(t *testing.T) {
		assert.Equal(t, "embeddinggemma", findStringFlag(flags, "embedding-model").Value)
		assert.Equal(t, "qwen2.5:3b", findStringFlag(flags, "fast-model").Value)
		assert.Equal(t, "qwen2.5:14b", findStringFlag(flags, "strong-model").Value)
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			assert.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.NoError(t, newApp().Run([]string{"test", "--log-level", "DEBUG"}))
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestParsePlaceholders(t *testing.T) {
	placeholders, err := parsePlaceholders([]string{
		"landlord=Acme GmbH",
		"rent=1200 EUR",
		"note=a=b",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"landlord": "Acme GmbH",
		"rent":     "1200 EUR",
		"note":     "a=b",
	}, placeholders)

	_, err = parsePlaceholders([]string{"no-separator"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name=value")

	_, err = parsePlaceholders([]string{"=value"})
	assert.Error(t, err)
}

func TestChatCommandRequiresQuestion(t *testing.T) {
	app := &cli.App{
		Name: "docpipe",
		Commands: []*cli.Command{
			{
				Name:   "chat",
				Action: chatCommand,
				Flags:  serviceFlags(),
			},
		},
	}

	err := app.Run([]string{"docpipe", "chat", "--db", t.TempDir(), "--tenant", "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question")
}
