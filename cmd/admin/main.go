package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"artlink/internal/database"
	"artlink/internal/repository"
	"artlink/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "artlink-admin",
		Short: "ArtLink 运维命令：创建管理员、执行数据库迁移",
	}

	flags := &dbFlags{}
	flags.register(rootCmd)

	rootCmd.AddCommand(createCmd(flags))
	rootCmd.AddCommand(migrateCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: "), err)
		os.Exit(1)
	}
}

func openDatabase(flags *dbFlags) (*gorm.DB, error) {
	cfg, err := flags.databaseConfig()
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	db, err := database.InitDatabase(cfg, logger.Warn)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

func createCmd(flags *dbFlags) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "创建管理员账号并打印一次性密码",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return fmt.Errorf("missing required flag: --email")
			}

			db, err := openDatabase(flags)
			if err != nil {
				return err
			}

			admins := service.NewAdminService(repository.NewAdminRepository(db, nil), nil)
			_, password, err := admins.Create(context.Background(), email)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.New(color.FgGreen).Sprint("已创建管理员账号（首次登录需强制改密）："))
			fmt.Fprintf(out, "邮箱: %s\n", email)
			fmt.Fprintf(out, "初始密码: %s\n", color.New(color.FgYellow, color.Bold).Sprint(password))
			fmt.Fprintln(out, "提示：请立即登录并修改密码（该密码仅显示一次）。")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "管理员邮箱（必填）")
	return cmd
}

func migrateCmd(flags *dbFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openDatabase(flags); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgGreen).Sprint("OK"), "database migrated")
			return nil
		},
	}
}
