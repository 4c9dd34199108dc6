// Package lifecycle はシャットダウン処理の登録と実行を管理します。
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout は終了処理全体に与える既定の猶予です。
const DefaultTimeout = 15 * time.Second

// ShutdownFunc は終了時に呼ばれる処理です。
type ShutdownFunc func(ctx context.Context) error

type component struct {
	name string
	stop ShutdownFunc
}

// Manager は起動順に登録されたコンポーネントを逆順に停止します。
// HTTPサーバー → AIクライアント → MongoDB の順で閉じるために使います。
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	components []component
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register はコンポーネントの停止処理を追加します。stop が nil なら無視します。
func (m *Manager) Register(name string, stop ShutdownFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	m.components = append(m.components, component{name: name, stop: stop})
	m.mu.Unlock()
}

// Shutdown は全コンポーネントを登録の逆順に停止します。
// 途中で失敗しても残りは停止し、エラーはコンポーネント名付きでまとめて返します。
// 一度停止したコンポーネントは再度呼ばれません。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	components := m.components
	m.components = nil
	m.mu.Unlock()

	if len(components) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var errs []error
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		started := time.Now()
		err := c.stop(ctx)
		fields := []zap.Field{zap.String("component", c.name), zap.Duration("took", time.Since(started))}
		if err != nil {
			m.logger.Error("failed to stop component", append(fields, zap.Error(err))...)
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		m.logger.Info("component stopped", fields...)
	}
	return errors.Join(errs...)
}

// Listen はSIGINT/SIGTERMを受け取ったら cancel を呼びます。
// 返り値の関数でシグナルの監視をやめます。
func (m *Manager) Listen(cancel context.CancelFunc) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
			if cancel != nil {
				cancel()
			}
		case <-done:
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
