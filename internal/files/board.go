package files

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrBoardRunning indicates a board already owns the data directory.
var ErrBoardRunning = errors.New("board is running for this data directory")

// BoardGuard is held by a running board. It binds a localhost port derived
// from the data directory so at most one board, and no mutating command,
// writes the timer state at a time.
type BoardGuard struct {
	listener net.Listener
	address  string
}

// AcquireBoard claims the data directory for a board.
func (m *Manager) AcquireBoard() (*BoardGuard, error) {
	address := m.boardAddress()
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrBoardRunning
	}
	return &BoardGuard{listener: listener, address: address}, nil
}

// CheckBoardIdle returns ErrBoardRunning while a board holds the data directory.
func (m *Manager) CheckBoardIdle() error {
	guard, err := m.AcquireBoard()
	if err != nil {
		return err
	}
	return guard.Release()
}

// Release frees the data directory.
func (guard *BoardGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *BoardGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (m *Manager) boardAddress() string {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(m.basePath))
	rangeSize := maxPort - minPort + 1
	return fmt.Sprintf("127.0.0.1:%d", minPort+int(hash.Sum32()%uint32(rangeSize)))
}
