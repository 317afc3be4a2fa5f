package usecase

import (
	"context"
	"fmt"

	"github.com/tungnguyen/tokendeploy/internal/domain"
)

// Node operations
const (
	NodeStart   = "start"
	NodeStop    = "stop"
	NodeRestart = "restart"
	NodeStatus  = "status"
	NodeLogs    = "logs"
)

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation string
	Name      string
	Port      string
	ChainID   string
}

// ManageNodeResult contains the result of node operations
type ManageNodeResult struct {
	Operation string
	Instance  *domain.NodeInstance
	Status    *domain.NodeStatus
	Message   string
}

// ManageNode handles local node management operations
type ManageNode struct {
	nodes    NodeManager
	progress ProgressSink
}

// NewManageNode creates a new node management use case
func NewManageNode(nodes NodeManager, progress ProgressSink) *ManageNode {
	return &ManageNode{
		nodes:    nodes,
		progress: progress,
	}
}

// Execute performs the node management operation
func (m *ManageNode) Execute(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance := &domain.NodeInstance{
		Name:    params.Name,
		Port:    params.Port,
		ChainID: params.ChainID,
	}

	switch params.Operation {
	case NodeStart:
		return m.start(ctx, instance)
	case NodeStop:
		return m.stop(ctx, instance)
	case NodeRestart:
		if _, err := m.stop(ctx, instance); err != nil {
			return nil, err
		}
		result, err := m.start(ctx, instance)
		if err != nil {
			return nil, err
		}
		result.Operation = NodeRestart
		return result, nil
	case NodeStatus, NodeLogs:
		status, err := m.nodes.GetStatus(ctx, instance)
		if err != nil {
			return nil, fmt.Errorf("failed to get status: %w", err)
		}
		return &ManageNodeResult{Operation: params.Operation, Instance: instance, Status: status}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
}

func (m *ManageNode) start(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	status, err := m.nodes.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return nil, fmt.Errorf("node '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	m.progress.Info(fmt.Sprintf("Starting local node '%s' on port %s...", instance.Name, instance.Port))

	if err := m.nodes.Start(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.nodes.GetStatus(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to get status after start: %w", err)
	}

	return &ManageNodeResult{
		Operation: NodeStart,
		Instance:  instance,
		Status:    status,
		Message:   fmt.Sprintf("Node '%s' started with PID %d", instance.Name, status.PID),
	}, nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.NodeInstance) (*ManageNodeResult, error) {
	status, err := m.nodes.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		return &ManageNodeResult{
			Operation: NodeStop,
			Instance:  instance,
			Message:   fmt.Sprintf("Node '%s' is not running", instance.Name),
		}, nil
	}

	m.progress.Info(fmt.Sprintf("Stopping local node '%s'...", instance.Name))
	if err := m.nodes.Stop(ctx, instance); err != nil {
		return nil, fmt.Errorf("failed to stop node: %w", err)
	}

	return &ManageNodeResult{
		Operation: NodeStop,
		Instance:  instance,
		Message:   "Node stopped",
	}, nil
}
