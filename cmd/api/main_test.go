package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-dashboard/internal/config"
	"github.com/jwalitptl/practice-dashboard/internal/handler/entity"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{{"serve"}, {"seed"}, {"migrate", "up"}, {"migrate", "down"}, {"migrate", "status"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config.yaml", flag.DefValue)
}

func TestMemoryResourcesCoverUntabledPages(t *testing.T) {
	nop := zerolog.Nop()
	handlers := memoryResources(config.SeedConfig{Count: 10, Seed: 7}, entity.Options{Logger: &nop})

	names := make([]string, 0, len(handlers))
	adminOnly := map[string]bool{}
	for _, h := range handlers {
		names = append(names, h.Name())
		adminOnly[h.Name()] = h.AdminOnly()
	}
	assert.ElementsMatch(t, []string{
		resource.Invoices, resource.Staff, resource.Products, resource.Suppliers,
		resource.Workflows, resource.SecurityEvents, resource.Logs,
	}, names)
	assert.True(t, adminOnly[resource.Invoices])
	assert.False(t, adminOnly[resource.Products])
}

func TestCORSConfigKeepsDefaultsWithoutOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, corsConfig(config.CORSConfig{}).AllowOrigins)

	c := corsConfig(config.CORSConfig{AllowOrigins: []string{"https://dashboard.clinic.test"}})
	assert.Equal(t, []string{"https://dashboard.clinic.test"}, c.AllowOrigins)
	assert.Contains(t, c.AllowHeaders, "Authorization")
}
