package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"mzapi/internal/config"
	"mzapi/internal/handler"
	aliyunHandler "mzapi/internal/handler/aliyun"
	"mzapi/internal/pkg/green"
	httputil "mzapi/internal/pkg/http"
	"mzapi/internal/server/middleware"
	aliyunsvc "mzapi/internal/service/aliyun"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	admin  *gin.Engine
	health *handler.HealthHandler
}

// Option 服务器可选项，主要用于替换上游客户端
type Option func(*options)

type options struct {
	greenFactory green.ClientFactory
	chatFactory  aliyunsvc.ChatClientFactory
}

// WithGreenClientFactory 替换内容安全客户端的创建方式
func WithGreenClientFactory(f green.ClientFactory) Option {
	return func(o *options) {
		o.greenFactory = f
	}
}

// WithChatClientFactory 替换百炼客户端的创建方式
func WithChatClientFactory(f aliyunsvc.ChatClientFactory) Option {
	return func(o *options) {
		o.chatFactory = f
	}
}

// New 创建服务器实例
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// 请求体中不允许出现未声明的字段
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
		health: handler.NewHealthHandler(),
	}
	if cfg.Metrics.Addr != "" {
		srv.admin = newAdminEngine(srv.health)
	}

	srv.setupRoutes(
		aliyunsvc.NewImageModerationService(cfg, o.greenFactory),
		aliyunsvc.NewTextGenerationService(cfg, o.chatFactory),
	)

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(moderation *aliyunsvc.ImageModerationService, generation *aliyunsvc.TextGenerationService) {
	gw := s.cfg.Gateway

	// 全局中间件，顺序即执行顺序；响应头在链返回时按相反顺序写入
	s.engine.Use(
		middleware.Capture(),
		middleware.Recovery(),
		middleware.Gzip(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(),
		middleware.SecurityHeaders(),
		middleware.ProxyHeader(gw.ServiceHeader),
		middleware.PostOnly(),
		middleware.NoCache(),
		middleware.ContentDigest(),
		middleware.ContentLanguage(gw.ContentLanguage),
		middleware.ServerTiming(),
		middleware.Timeout(gw.RequestTimeout()),
		middleware.BodySizeLimit(gw.MaxBodyBytes()),
	)

	s.engine.NoRoute(func(c *gin.Context) {
		httputil.Abort(c, httputil.NewNotFound("Cannot "+c.Request.Method+" "+c.Request.URL.Path))
	})

	indexHdl := handler.NewIndexHandler()
	s.engine.GET("/", indexHdl.Index)

	aliyunHdl := aliyunHandler.NewHandler(moderation, generation)
	group := s.engine.Group("/aliyun")
	{
		group.POST("/image-moderation", aliyunHdl.ImageModeration)
		group.POST("/text-generation", aliyunHdl.TextGeneration)
	}
}

// Run 启动服务器，ctx 结束时优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 端口全部绑定成功后才标记就绪
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	var adminSrv *http.Server
	var adminLn net.Listener
	if s.admin != nil {
		adminSrv = &http.Server{
			Addr:    s.cfg.Metrics.Addr,
			Handler: s.admin,
		}
		adminLn, err = net.Listen("tcp", adminSrv.Addr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("listen admin %s: %w", adminSrv.Addr, err)
		}
	}

	errCh := make(chan error, 2)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if adminSrv != nil {
		go func() {
			log.Info().Str("addr", adminLn.Addr().String()).Msg("starting admin server")
			if err := adminSrv.Serve(adminLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}
	s.health.SetReady(true)

	// 等待关闭信号或错误
	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("server stopped unexpectedly")
	}
	s.health.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Gateway.RequestTimeout())
	defer cancel()

	if adminSrv != nil {
		if err := adminSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown admin server")
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Admin 获取管理端口引擎，未配置时为 nil
func (s *Server) Admin() *gin.Engine {
	return s.admin
}

// jsonFieldName 校验错误中使用 JSON 字段名
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
