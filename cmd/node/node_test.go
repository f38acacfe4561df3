package node

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/cmd/common"
	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/silo"
)

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestRunNodesStopsOnListenFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	core, _ := silo.LookupNodeType("Core")
	core.DefaultPort = busy.Addr().(*net.TCPAddr).Port
	flow, _ := silo.LookupNodeType("Flow")
	flow.DefaultPort = freePort(t)

	rt := &common.Runtime{Logger: logger.NewNop()}
	done := make(chan error, 1)
	go func() { done <- runNodes(context.Background(), []silo.NodeType{core, flow}, "127.0.0.1", rt) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tata-core")
	case <-time.After(5 * time.Second):
		t.Fatal("runNodes did not return after a listen failure")
	}
}

func TestRunArgs(t *testing.T) {
	rt := &common.Runtime{Logger: logger.NewNop()}

	cmd := NewNodeCmd(rt)
	cmd.SetArgs([]string{"run"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())

	cmd = NewNodeCmd(rt)
	cmd.SetArgs([]string{"run", "Edge"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Core, Flow, Memex, Moto, ZKP")
}

func TestListNodeTypes(t *testing.T) {
	var out bytes.Buffer
	cmd := NewNodeCmd(&common.Runtime{})
	cmd.SetArgs([]string{"list"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "tata-zkp")
	assert.Contains(t, out.String(), "8005")
}
