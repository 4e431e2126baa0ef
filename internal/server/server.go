package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/config"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact"
	contactdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document"
	documentdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/observability"
	obsmiddleware "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/observability/logger"
	obsmetrics "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/observability/metrics"
	obstracing "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/observability/tracing"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization"
	organizationdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/providers/pdf"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/ratelimit"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax"
	taxdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	organization.Module,
	contact.Module,
	tax.Module,
	document.Module,
	pdf.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	organizationSvc organizationdomain.Service
	contactSvc      contactdomain.Service
	taxSvc          taxdomain.Service
	documentSvc     documentdomain.Service
	pdfProvider     pdf.Provider
	previewLimiter  *ratelimit.PreviewLimiter
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	OrganizationSvc organizationdomain.Service
	ContactSvc      contactdomain.Service
	TaxSvc          taxdomain.Service
	DocumentSvc     documentdomain.Service
	PDFProvider     pdf.Provider
	PreviewLimiter  *ratelimit.PreviewLimiter `optional:"true"`
	ObsMetrics      *obsmetrics.Metrics       `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		contactSvc:      p.ContactSvc,
		taxSvc:          p.TaxSvc,
		documentSvc:     p.DocumentSvc,
		pdfProvider:     p.PDFProvider,
		previewLimiter:  p.PreviewLimiter,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.OrgContext())

	api.GET("/organizations", s.ListOrganizations)
	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations/:id", s.GetOrganization)
	api.PATCH("/organizations/:id", s.UpdateOrganization)

	api.GET("/contacts", s.ListContacts)
	api.POST("/contacts", s.CreateContact)
	api.GET("/contacts/:id", s.GetContact)
	api.PATCH("/contacts/:id", s.UpdateContact)

	api.GET("/tax_definitions", s.ListTaxDefinitions)
	api.POST("/tax_definitions", s.CreateTaxDefinition)
	api.PATCH("/tax_definitions/:id", s.UpdateTaxDefinition)
	api.DELETE("/tax_definitions/:id", s.DisableTaxDefinition)

	api.POST("/documents/preview", s.PreviewDocument)
	api.GET("/documents", s.ListDocuments)
	api.POST("/documents", s.CreateDocument)
	api.GET("/documents/:id", s.GetDocument)
	api.PATCH("/documents/:id", s.UpdateDocument)
	api.POST("/documents/:id/finalize", s.FinalizeDocument)
	api.POST("/documents/:id/void", s.VoidDocument)
	api.POST("/documents/:id/pay", s.MarkDocumentPaid)
	api.POST("/documents/:id/convert", s.ConvertQuote)
	api.GET("/documents/:id/pdf", s.RenderDocumentPDF)
}
