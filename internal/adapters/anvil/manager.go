package anvil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tungnguyen/tokendeploy/internal/domain"
	"github.com/tungnguyen/tokendeploy/internal/usecase"
)

const (
	DefaultNodeName = "anvil"
	DefaultNodePort = "8545"
)

// Manager runs local anvil nodes in the background, tracked through pid and log files
type Manager struct {
	log          *slog.Logger
	binary       string
	tail         string
	fileDir      string
	startTimeout time.Duration
	pollInterval time.Duration
}

// NewManager creates a new anvil manager
func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		log:          log.With("component", "AnvilManager"),
		binary:       "anvil",
		tail:         "tail",
		fileDir:      os.TempDir(),
		startTimeout: 10 * time.Second,
		pollInterval: 200 * time.Millisecond,
	}
}

// Start launches anvil and waits until its RPC answers
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)

	if m.isRunning(instance) {
		return fmt.Errorf("anvil '%s' is already running (PID file exists at %s)", instance.Name, instance.PidFile)
	}

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(m.binary, buildAnvilArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	// own process group so the node outlives the terminal's Ctrl+C
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start anvil: %w", err)
	}
	pid := cmd.Process.Pid
	m.log.Debug("anvil started", "name", instance.Name, "pid", pid, "port", instance.Port)

	if err := writePidFile(instance.PidFile, pid); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	if err := m.waitHealthy(ctx, instance, exited); err != nil {
		_ = cmd.Process.Kill()
		_ = os.Remove(instance.PidFile)
		return fmt.Errorf("%w (see %s)", err, instance.LogFile)
	}
	return nil
}

// waitHealthy polls the node RPC until it answers, the process exits or the start timeout passes
func (m *Manager) waitHealthy(ctx context.Context, instance *domain.NodeInstance, exited <-chan error) error {
	ctx, cancel := context.WithTimeout(ctx, m.startTimeout)
	defer cancel()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		if _, _, err := m.probe(ctx, rpcURL(instance)); err == nil {
			return nil
		}
		select {
		case err := <-exited:
			if err == nil {
				err = errors.New("exited")
			}
			return fmt.Errorf("anvil stopped during startup: %v", err)
		case <-ctx.Done():
			return fmt.Errorf("anvil RPC did not respond on port %s: %w", instance.Port, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Stop terminates the node with SIGTERM, escalating to SIGKILL
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if alive(process) {
		if err := process.Signal(syscall.SIGTERM); err != nil {
			if err := process.Kill(); err != nil {
				return fmt.Errorf("failed to kill process: %w", err)
			}
		}

		deadline := time.Now().Add(5 * time.Second)
		for alive(process) && time.Now().Before(deadline) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.pollInterval):
			}
		}
		if alive(process) {
			_ = process.Kill()
		}
	}

	if err := os.Remove(instance.PidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	m.log.Debug("anvil stopped", "name", instance.Name, "pid", pid)
	return nil
}

// GetStatus reports whether the node runs and whether its RPC answers
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	m.setFilePaths(instance)

	status := &domain.NodeStatus{
		LogFile: instance.LogFile,
		RPCURL:  rpcURL(instance),
	}

	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return status, nil
	}
	process, err := os.FindProcess(pid)
	if err != nil || !alive(process) {
		return status, nil
	}

	status.Running = true
	status.PID = pid

	chainID, block, err := m.probe(ctx, status.RPCURL)
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}
	status.RPCHealthy = true
	status.ChainID = chainID
	status.BlockNumber = block
	return status, nil
}

// StreamLogs follows the node log file until the context is cancelled
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error {
	m.setFilePaths(instance)

	if _, err := os.Stat(instance.LogFile); os.IsNotExist(err) {
		return fmt.Errorf("log file does not exist: %s", instance.LogFile)
	}

	cmd := exec.CommandContext(ctx, m.tail, "-n", "+1", "-f", instance.LogFile)
	cmd.Stdout = writer
	cmd.Stderr = writer

	if err := cmd.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to follow logs: %w", err)
	}
	return nil
}

// probe asks the node for its chain id and head block
func (m *Manager) probe(ctx context.Context, url string) (uint64, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("eth_chainId failed: %w", err)
	}
	block, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("eth_blockNumber failed: %w", err)
	}
	return chainID.Uint64(), block, nil
}

// setFilePaths fills default name, port and per-instance pid/log paths
func (m *Manager) setFilePaths(instance *domain.NodeInstance) {
	if strings.TrimSpace(instance.Name) == "" {
		instance.Name = DefaultNodeName
	}
	if strings.TrimSpace(instance.Port) == "" {
		instance.Port = DefaultNodePort
	}
	if instance.PidFile == "" {
		instance.PidFile = filepath.Join(m.fileDir, fmt.Sprintf("tokendeploy-%s.pid", instance.Name))
	}
	if instance.LogFile == "" {
		instance.LogFile = filepath.Join(m.fileDir, fmt.Sprintf("tokendeploy-%s.log", instance.Name))
	}
}

func (m *Manager) isRunning(instance *domain.NodeInstance) bool {
	pid, err := readPidFile(instance.PidFile)
	if err != nil {
		return false
	}
	process, err := os.FindProcess(pid)
	return err == nil && alive(process)
}

func buildAnvilArgs(instance *domain.NodeInstance) []string {
	args := []string{"--port", instance.Port, "--host", "0.0.0.0"}
	if instance.ChainID != "" {
		args = append(args, "--chain-id", instance.ChainID)
	}
	return args
}

func rpcURL(instance *domain.NodeInstance) string {
	return fmt.Sprintf("http://127.0.0.1:%s", instance.Port)
}

func alive(process *os.Process) bool {
	return process.Signal(syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %s", string(data))
	}
	return pid, nil
}

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}

// Ensure the adapter implements the interface
var _ usecase.NodeManager = (*Manager)(nil)
