package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	pkgerrors "academic-calendar/backend/pkg/errors"
)

// ErrUnsupported 当前环境不支持该复制机制
var ErrUnsupported = errors.New("复制机制不受支持")

// Sink 通知文本的接收端
type Sink interface {
	Copy(ctx context.Context, text string) error
}

// SinkFunc 函数适配器
type SinkFunc func(ctx context.Context, text string) error

func (f SinkFunc) Copy(ctx context.Context, text string) error { return f(ctx, text) }

// ── 系统剪贴板（主机制）──

// System 通过 xclip/xsel/pbcopy 等写入系统剪贴板
type System struct{}

func (System) Copy(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// ── OSC52 终端转义序列（备用机制）──

// OSC52 向终端写入 OSC52 序列，由终端模拟器代为写入剪贴板，适用于 SSH 会话
type OSC52 struct {
	W io.Writer
}

func (s OSC52) Copy(_ context.Context, text string) error {
	if s.W == nil {
		return ErrUnsupported
	}
	_, err := osc52.New(text).WriteTo(s.W)
	return err
}

// ── 主备组合 ──

// Fallback 先尝试 Primary，失败后尝试 Secondary；两者都失败才返回 ErrClipboardUnavailable
type Fallback struct {
	Primary   Sink
	Secondary Sink
}

func (f Fallback) Copy(ctx context.Context, text string) error {
	primaryErr := f.Primary.Copy(ctx, text)
	if primaryErr == nil {
		return nil
	}
	if f.Secondary == nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrClipboardUnavailable, primaryErr)
	}
	if err := f.Secondary.Copy(ctx, text); err != nil {
		return fmt.Errorf("%w: %v; %v", pkgerrors.ErrClipboardUnavailable, primaryErr, err)
	}
	return nil
}

// ── 服务端 ──

// Discard 服务端默认接收端：文本通过 HTTP 响应返回，不写剪贴板
type Discard struct{}

func (Discard) Copy(context.Context, string) error { return nil }

// Recorder 记录最后一次复制的文本，供测试与调试使用
type Recorder struct {
	mu   sync.Mutex
	last string
	n    int
}

func (r *Recorder) Copy(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = text
	r.n++
	return nil
}

// Last 最后一次复制的文本及累计次数
func (r *Recorder) Last() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.n
}
