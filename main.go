package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/weibaohui/difytool-go/devtool"
	"github.com/weibaohui/difytool-go/manifest"
	"github.com/weibaohui/difytool-go/plugins"
	"github.com/weibaohui/difytool-go/plugins/chatwork"
	"github.com/weibaohui/difytool-go/plugins/echo"
	"github.com/weibaohui/difytool-go/plugins/helloworld"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var (
	debugGlobal    bool
	bundleRoot     string
	invokePlugin   string
	invokeAction   string
	invokeInput    string
	invokeSettings string
	invokeStdin    bool
	packOut        string
	cliVersion     string
	cliInstallDir  string
)

var rootCmd = &cobra.Command{
	Use:   "difytool",
	Short: "difytool - Dify 工具插件开发助手",
	Long:  `difytool - 校验、调试、打包 Dify 工具插件的开发辅助 CLI。`,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "校验 manifest.yaml",
	Long:  `校验插件包根描述文件及其引用的各插件描述文件。`,
	Run:   runValidate,
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "本地调用插件操作",
	Long:  `在本地注册表中调用指定插件的操作，输入输出均为 JSON。`,
	Run:   runInvoke,
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "打包生成发布 zip",
	Long:  `校验后把插件包打包到 dist/ 目录。`,
	Run:   runPack,
}

var installCLICmd = &cobra.Command{
	Use:   "install-cli",
	Short: "安装官方 dify CLI",
	Long:  `从 GitHub Release 下载并安装官方 dify CLI。`,
	Run:   runInstallCLI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("difytool-go %s (built %s)\n", version, buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugGlobal, "debug", "d", false, "调试模式")
	rootCmd.PersistentFlags().StringVarP(&bundleRoot, "root", "r", ".", "插件包根目录")

	invokeCmd.Flags().StringVarP(&invokePlugin, "plugin", "p", "", "插件名称")
	invokeCmd.Flags().StringVarP(&invokeAction, "action", "a", "", "操作名称")
	invokeCmd.Flags().StringVarP(&invokeInput, "input", "i", "", "JSON 输入")
	invokeCmd.Flags().StringVarP(&invokeSettings, "settings", "s", "", "JSON 配置")
	invokeCmd.Flags().BoolVar(&invokeStdin, "stdin", false, "从标准输入读取 JSON 输入")

	packCmd.Flags().StringVarP(&packOut, "out", "o", "", "输出目录（默认 <root>/dist）")

	installCLICmd.Flags().StringVar(&cliVersion, "version", "latest", "要安装的 Release 标签")
	installCLICmd.Flags().StringVar(&cliInstallDir, "install-dir", "", "安装目录（默认 ~/.local/bin）")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(installCLICmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ========== validate 命令实现 ==========

func runValidate(cmd *cobra.Command, args []string) {
	logger := initLogger(debugGlobal)
	defer logger.Sync()

	bundle, err := devtool.Validate(bundleRoot)
	if err != nil {
		logger.Fatal("校验失败", zap.Error(err))
	}

	fmt.Printf("manifest.yaml 校验通过: %s %s\n", bundle.Name, bundle.Version)
}

// ========== invoke 命令实现 ==========

func runInvoke(cmd *cobra.Command, args []string) {
	logger := initLogger(debugGlobal)
	defer logger.Sync()

	if invokePlugin == "" || invokeAction == "" {
		logger.Fatal("必须指定 --plugin 和 --action")
	}

	inputs, err := readJSONInput()
	if err != nil {
		logger.Fatal("解析输入失败", zap.Error(err))
	}

	settings := map[string]any{}
	if invokeSettings != "" {
		if err := json.Unmarshal([]byte(invokeSettings), &settings); err != nil {
			logger.Fatal("解析配置失败", zap.Error(err))
		}
	}

	registry, err := buildRegistry(bundleRoot, logger)
	if err != nil {
		logger.Fatal("加载插件失败", zap.Error(err))
	}

	result, err := registry.Invoke(context.Background(), invokePlugin, invokeAction, settings, inputs)
	if err != nil {
		logger.Fatal("插件执行失败", zap.Error(err))
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("序列化结果失败", zap.Error(err))
	}
	fmt.Println(string(output))
}

func readJSONInput() (map[string]any, error) {
	raw := invokeInput
	if invokeStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	}

	inputs := map[string]any{}
	if raw == "" {
		if !invokeStdin {
			return nil, fmt.Errorf("必须通过 --input 或 --stdin 提供输入")
		}
		return inputs, nil
	}
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

// buildRegistry 启动时显式加载描述文件并注册各插件
func buildRegistry(root string, logger *zap.Logger) (*plugins.Registry, error) {
	bundle, err := manifest.LoadBundle(filepath.Join(root, "manifest.yaml"))
	if err != nil {
		return nil, err
	}

	registry := plugins.NewRegistry(logger)
	for _, rel := range bundle.Plugins {
		m, err := manifest.LoadPlugin(filepath.Join(root, rel))
		if err != nil {
			return nil, err
		}

		switch m.Name {
		case "chatwork":
			registry.Register(chatwork.NewPlugin(m, logger, nil))
		case "helloworld":
			registry.Register(helloworld.NewPlugin(m, logger))
		case "echo":
			registry.Register(echo.NewPlugin(m, logger))
		default:
			logger.Warn("未知的插件描述文件，已跳过",
				zap.String("name", m.Name),
				zap.String("path", rel),
			)
		}
	}

	return registry, nil
}

// ========== pack 命令实现 ==========

func runPack(cmd *cobra.Command, args []string) {
	logger := initLogger(debugGlobal)
	defer logger.Sync()

	outPath, err := devtool.Pack(bundleRoot, packOut, logger)
	if err != nil {
		logger.Fatal("打包失败", zap.Error(err))
	}

	fmt.Printf("打包完成 -> %s\n", outPath)
}

// ========== install-cli 命令实现 ==========

func runInstallCLI(cmd *cobra.Command, args []string) {
	logger := initLogger(debugGlobal)
	defer logger.Sync()

	installDir := cliInstallDir
	if installDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Fatal("获取用户主目录失败", zap.Error(err))
		}
		installDir = filepath.Join(home, ".local", "bin")
	}

	destination, err := devtool.InstallCLI(context.Background(), cliVersion, installDir, logger)
	if err != nil {
		logger.Fatal("安装 dify CLI 失败", zap.Error(err))
	}

	fmt.Println(destination)
}

func initLogger(debug bool) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	return zap.New(core, zap.AddCaller())
}
