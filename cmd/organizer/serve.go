package main

import (
	"context"

	"github.com/gin-gonic/gin"
	grpchandler "github.com/ogurasousui/employee-organizer/internal/adapters/grpc/handler"
	httphandler "github.com/ogurasousui/employee-organizer/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-organizer/internal/core/wizard"
	"github.com/ogurasousui/employee-organizer/internal/platform/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the gRPC and HTTP APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	ctrl := wizard.NewController(a.records, a.drafts, wizard.Options{
		Logger:         a.logger,
		MaxAvatarBytes: a.cfg.Avatar.MaxBytes,
	})
	wz := wizard.NewService(ctrl, wizard.NewSessions())

	g, ctx := errgroup.WithContext(ctx)

	if addr := a.cfg.Server.ListenAddr; addr != "" {
		organizer := grpchandler.NewOrganizerGrpcHandler(a.employees, wz, a.logger)
		grpcServer := server.New(addr, organizer, a.logger)
		g.Go(func() error {
			a.logger.Info("gRPC server listening", zap.String("addr", addr))
			return grpcServer.Run(ctx)
		})
	}

	if addr := a.cfg.Server.HTTPAddr; addr != "" {
		gin.SetMode(gin.ReleaseMode)
		h := httphandler.NewHandler(a.employees, wz, a.cfg.Avatar.MaxBytes, a.logger)
		httpServer := server.NewHTTP(addr, httphandler.NewRouter(h, a.logger))
		g.Go(func() error {
			a.logger.Info("HTTP server listening", zap.String("addr", addr))
			return httpServer.Run(ctx)
		})
	}

	return g.Wait()
}
