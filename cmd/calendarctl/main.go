package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	opts := &rootOptions{}

	var rootCmd = &cobra.Command{
		Use:           "calendarctl",
		Short:         "学术日历命令行工具：查看批次、设置学期、发布作业截止、保存",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("CALENDAR_CONFIG"), "配置文件路径")
	rootCmd.PersistentFlags().StringVarP(&opts.username, "user", "u", "", "管理员用户名（修改类命令必填）")
	rootCmd.PersistentFlags().StringVarP(&opts.password, "password", "p", os.Getenv("CALENDAR_ADMIN_PASSWORD"), "管理员密码，默认读取 CALENDAR_ADMIN_PASSWORD")

	rootCmd.AddCommand(
		newBatchesCmd(opts),
		newSubjectsCmd(opts),
		newAddBatchCmd(opts),
		newRenameCmd(opts),
		newSetStartCmd(opts),
		newDraftCmd(opts),
		newDeadlineCmd(opts),
		newSaveCmd(opts),
		newLocalSavedCmd(opts),
		newExportCmd(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
