package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

// NodeRenderer renders local node operation results
type NodeRenderer struct {
	out io.Writer
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer) *NodeRenderer {
	return &NodeRenderer{out: out}
}

// Render renders the node operation result
func (r *NodeRenderer) Render(result *usecase.ManageNodeResult) error {
	switch result.Operation {
	case usecase.NodeStart, usecase.NodeRestart:
		return r.renderStart(result)
	case usecase.NodeStop:
		color.New(color.FgGreen).Fprintf(r.out, "✅ %s\n", result.Message)
		return nil
	case usecase.NodeStatus:
		return r.renderStatus(result)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
}

func (r *NodeRenderer) renderStart(result *usecase.ManageNodeResult) error {
	color.New(color.FgGreen).Fprintf(r.out, "✅ %s\n", result.Message)
	if result.Status == nil {
		return nil
	}
	color.New(color.FgYellow).Fprintf(r.out, "📋 Logs: %s\n", result.Status.LogFile)
	color.New(color.FgBlue).Fprintf(r.out, "🌐 RPC URL: %s\n", result.Status.RPCURL)
	if result.Status.ChainID != 0 {
		fmt.Fprintf(r.out, "⛓  Chain ID: %d\n", result.Status.ChainID)
	}
	return nil
}

func (r *NodeRenderer) renderStatus(result *usecase.ManageNodeResult) error {
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "📊 Node Status ('%s'):\n", result.Instance.Name)

	status := result.Status
	if status == nil || !status.Running {
		color.New(color.FgRed).Fprintln(r.out, "Status: 🔴 Not running")
		color.New(color.FgHiBlack).Fprintf(r.out, "PID file: %s\n", result.Instance.PidFile)
		color.New(color.FgHiBlack).Fprintf(r.out, "Log file: %s\n", result.Instance.LogFile)
		return nil
	}

	color.New(color.FgGreen).Fprintf(r.out, "Status: 🟢 Running (PID %d)\n", status.PID)
	color.New(color.FgBlue).Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
	color.New(color.FgYellow).Fprintf(r.out, "Log file: %s\n", status.LogFile)

	if status.RPCHealthy {
		color.New(color.FgGreen).Fprintf(r.out, "RPC Health: ✅ Responding (chain %d, block %d)\n", status.ChainID, status.BlockNumber)
	} else {
		color.New(color.FgRed).Fprintf(r.out, "RPC Health: ❌ Not responding (%s)\n", status.Error)
	}
	return nil
}

// RenderLogsHeader renders the header for logs streaming
func (r *NodeRenderer) RenderLogsHeader(result *usecase.ManageNodeResult) {
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "📋 Showing node '%s' logs (Ctrl+C to exit):\n", result.Instance.Name)
	color.New(color.FgHiBlack).Fprintf(r.out, "Log file: %s\n\n", result.Instance.LogFile)
}

var _ Renderer[*usecase.ManageNodeResult] = (*NodeRenderer)(nil)
