package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/auralynx/auralynx/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestHelpExitsZero(t *testing.T) {
	t.Parallel()

	cmd := cli.NewParseCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--help"})

	require.Equal(t, 0, cli.Execute(context.Background(), cmd))
	require.Contains(t, out.String(), "--lrc-out")
}
