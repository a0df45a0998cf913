package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mzapi/internal/config"
	"mzapi/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mzapi",
	Short: "MZAPI - 米粥宝贝 API 服务",
	Long: `MZAPI is an HTTP gateway in front of Aliyun services.
It provides image moderation (Content Security) and text generation (DashScope)
behind a fixed pipeline of response headers and request guards.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")
}

func initConfig() {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.mzapi")
	}

	// 环境变量设置
	viper.SetEnvPrefix("MZAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindLegacyEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if viper.ConfigFileUsed() != "" {
		watchLogLevel()
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

// bindLegacyEnv 兼容不带前缀的环境变量
func bindLegacyEnv() {
	_ = viper.BindEnv("server.port", "MZAPI_SERVER_PORT", "PORT")
	_ = viper.BindEnv("gateway.max_body_size_mb", "MZAPI_GATEWAY_MAX_BODY_SIZE_MB", "MAX_BODY_SIZE_MB")
	_ = viper.BindEnv("gateway.request_timeout_ms", "MZAPI_GATEWAY_REQUEST_TIMEOUT_MS", "REQUEST_TIMEOUT_MS")
	_ = viper.BindEnv("log.env", "MZAPI_LOG_ENV", "NODE_ENV")
}

// watchLogLevel 配置文件变更时只热更新日志级别，其余配置需要重启
func watchLogLevel() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		lc := config.LogConfig{
			Level: viper.GetString("log.level"),
			Env:   viper.GetString("log.env"),
		}
		lvl := logger.SetLevel(lc.EffectiveLevel())
		log.Info().Str("file", e.Name).Str("level", lvl.String()).Msg("log level reloaded")
	})
	viper.WatchConfig()
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "0s")

	// Gateway
	viper.SetDefault("gateway.max_body_size_mb", 10)
	viper.SetDefault("gateway.request_timeout_ms", 30000)
	viper.SetDefault("gateway.service_header", "MZAPI/EdgeOne-Proxy")
	viper.SetDefault("gateway.content_language", "zh-CN")

	// Aliyun
	viper.SetDefault("aliyun.dashscope_base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	viper.SetDefault("aliyun.moderation_version", "2022-03-02")
	viper.SetDefault("aliyun.moderation_region", "cn-shanghai")

	// Log
	viper.SetDefault("log.level", "")
	viper.SetDefault("log.env", "development")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// Metrics
	viper.SetDefault("metrics.addr", ":9090")

	// Telemetry
	viper.SetDefault("telemetry.service_name", "mzapi")
	viper.SetDefault("telemetry.otlp_endpoint", "")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
