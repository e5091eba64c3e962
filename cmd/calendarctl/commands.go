package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"academic-calendar/backend/internal/dto"
)

// ── 只读命令 ──

func newBatchesCmd(opts *rootOptions) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "列出批次及派生日期",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				return printJSON(a.svc.Calendar.List(ctx, query))
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "按批次名称搜索（不区分大小写）")
	return cmd
}

func newSubjectsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "按学期列出科目目录",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				return printJSON(a.svc.Deadline.Subjects(ctx))
			})
		},
	}
}

func newDraftCmd(opts *rootOptions) *cobra.Command {
	var batchID int
	var subject string
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "查看科目所在学期的发布日与提交日",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				draft, err := a.svc.Deadline.Draft(ctx, batchID, subject)
				if err != nil {
					return err
				}
				return printJSON(draft)
			})
		},
	}
	cmd.Flags().IntVarP(&batchID, "batch", "b", 1, "批次 id")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "科目名称")
	cmd.MarkFlagRequired("subject")
	return cmd
}

func newLocalSavedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "local-saved",
		Short: "查看本地兜底存储中的批次",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				docs, err := a.svc.Persistence.LocalSaved(ctx)
				if err != nil {
					return err
				}
				return printJSON(docs)
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var batchID int
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出批次为 xlsx 或 ics 文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				var (
					buf      *bytes.Buffer
					filename string
					err      error
				)
				switch format {
				case "xlsx":
					buf, filename, err = a.svc.Export.ExportBatchXLSX(ctx, batchID)
				case "ics":
					buf, filename, err = a.svc.Export.ExportBatchICS(ctx, batchID)
				default:
					return fmt.Errorf("不支持的导出格式: %s", format)
				}
				if err != nil {
					return err
				}
				if out == "" {
					out = filename
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("写入导出文件失败: %w", err)
				}
				fmt.Fprintln(os.Stderr, "已导出:", out)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&batchID, "batch", "b", 1, "批次 id")
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "导出格式 [xlsx, ics]")
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出文件路径，默认使用生成的文件名")
	return cmd
}

// ── 修改类命令（需管理员凭据，执行后立即保存）──

func newAddBatchCmd(opts *rootOptions) *cobra.Command {
	var batchType string
	cmd := &cobra.Command{
		Use:   "add-batch",
		Short: "新增批次并保存",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				operator, err := a.unlock(ctx, opts)
				if err != nil {
					return err
				}
				batch, err := a.svc.Calendar.AddBatch(ctx, &dto.CreateBatchRequest{Type: batchType})
				if err != nil {
					return err
				}
				if err := printJSON(batch); err != nil {
					return err
				}
				return a.save(ctx, batch.ID, operator)
			})
		},
	}
	cmd.Flags().StringVarP(&batchType, "type", "t", "weekday", "批次类型 [weekday, weekend]")
	return cmd
}

func newRenameCmd(opts *rootOptions) *cobra.Command {
	var batchID int
	var name string
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "批次改名并保存",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				operator, err := a.unlock(ctx, opts)
				if err != nil {
					return err
				}
				if _, err := a.svc.Calendar.Rename(ctx, batchID, &dto.RenameBatchRequest{Name: name}); err != nil {
					return err
				}
				return a.save(ctx, batchID, operator)
			})
		},
	}
	cmd.Flags().IntVarP(&batchID, "batch", "b", 1, "批次 id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "新名称")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newSetStartCmd(opts *rootOptions) *cobra.Command {
	var batchID, index int
	var start string
	cmd := &cobra.Command{
		Use:   "set-start",
		Short: "设置学期开始日期（级联后续学期）并保存",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				operator, err := a.unlock(ctx, opts)
				if err != nil {
					return err
				}
				batch, err := a.svc.Calendar.SetStart(ctx, batchID, index, &dto.SetStartRequest{Start: start})
				if err != nil {
					return err
				}
				if err := printJSON(batch); err != nil {
					return err
				}
				return a.save(ctx, batchID, operator)
			})
		},
	}
	cmd.Flags().IntVarP(&batchID, "batch", "b", 1, "批次 id")
	cmd.Flags().IntVarP(&index, "semester", "s", 0, "学期序号（0 起）")
	cmd.Flags().StringVarP(&start, "date", "d", "", "开始日期 YYYY-MM-DD，空串表示清除")
	return cmd
}

func newDeadlineCmd(opts *rootOptions) *cobra.Command {
	var batchID int
	var subject, deadline string
	cmd := &cobra.Command{
		Use:   "deadline",
		Short: "发布作业截止，复制通知文本并保存",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				operator, err := a.unlock(ctx, opts)
				if err != nil {
					return err
				}
				result, err := a.svc.Deadline.Release(ctx, batchID, &dto.ReleaseDeadlineRequest{Subject: subject, Deadline: deadline})
				if err != nil {
					return err
				}
				fmt.Println(result.Message)
				if !result.Copied {
					fmt.Fprintln(os.Stderr, "复制到剪贴板失败:", result.CopyError)
				}
				return a.save(ctx, batchID, operator)
			})
		},
	}
	cmd.Flags().IntVarP(&batchID, "batch", "b", 1, "批次 id")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "科目名称")
	cmd.Flags().StringVarP(&deadline, "date", "d", "", "截止日期 YYYY-MM-DD")
	cmd.MarkFlagRequired("subject")
	return cmd
}

func newSaveCmd(opts *rootOptions) *cobra.Command {
	var batchID int
	cmd := &cobra.Command{
		Use:   "save",
		Short: "保存批次：远端 → 重新认证重试 → 本地兜底",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(ctx context.Context, a *app) error {
				operator, err := a.unlock(ctx, opts)
				if err != nil {
					return err
				}
				return a.save(ctx, batchID, operator)
			})
		},
	}
	cmd.Flags().IntVarP(&batchID, "batch", "b", 1, "批次 id")
	return cmd
}
