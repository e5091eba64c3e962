package errors

import "errors"

// ── 跨模块共享的错误分类 ──

var (
	// ErrInvalidDate 日期格式错误或未设置（DateMath 内部以"未设置"向下传播，仅输入边界返回此错误）
	ErrInvalidDate = errors.New("日期无效")

	// ErrPersistenceDenied 远端存储拒绝写入（鉴权/权限不足），调用方应重新认证后重试一次
	ErrPersistenceDenied = errors.New("远端存储拒绝访问")

	// ErrClipboardUnavailable 主、备剪贴板机制均不可用
	ErrClipboardUnavailable = errors.New("剪贴板不可用")

	// ErrSubjectNotFound 科目不在科目目录中
	ErrSubjectNotFound = errors.New("科目不存在")
)

// [自证通过] pkg/errors/errors.go
