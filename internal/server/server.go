package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopkit/tradepost/internal/cache"
	"github.com/shopkit/tradepost/internal/catalog"
	catalogdomain "github.com/shopkit/tradepost/internal/catalog/domain"
	"github.com/shopkit/tradepost/internal/channel"
	channeldomain "github.com/shopkit/tradepost/internal/channel/domain"
	"github.com/shopkit/tradepost/internal/clock"
	"github.com/shopkit/tradepost/internal/config"
	"github.com/shopkit/tradepost/internal/customer"
	customerdomain "github.com/shopkit/tradepost/internal/customer/domain"
	"github.com/shopkit/tradepost/internal/customergroup"
	customergroupdomain "github.com/shopkit/tradepost/internal/customergroup/domain"
	"github.com/shopkit/tradepost/internal/inventory"
	inventorydomain "github.com/shopkit/tradepost/internal/inventory/domain"
	"github.com/shopkit/tradepost/internal/location"
	locationdomain "github.com/shopkit/tradepost/internal/location/domain"
	"github.com/shopkit/tradepost/internal/observability"
	obsmiddleware "github.com/shopkit/tradepost/internal/observability/logger"
	obsmetrics "github.com/shopkit/tradepost/internal/observability/metrics"
	obstracing "github.com/shopkit/tradepost/internal/observability/tracing"
	"github.com/shopkit/tradepost/internal/order"
	orderdomain "github.com/shopkit/tradepost/internal/order/domain"
	"github.com/shopkit/tradepost/internal/organization"
	organizationdomain "github.com/shopkit/tradepost/internal/organization/domain"
	"github.com/shopkit/tradepost/internal/outbox"
	"github.com/shopkit/tradepost/internal/ratelimit"
	"github.com/shopkit/tradepost/internal/reason"
	reasondomain "github.com/shopkit/tradepost/internal/reason/domain"
	"github.com/shopkit/tradepost/internal/taxprofile"
	taxprofiledomain "github.com/shopkit/tradepost/internal/taxprofile/domain"
	"github.com/shopkit/tradepost/internal/taxrate"
	taxratedomain "github.com/shopkit/tradepost/internal/taxrate/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	cache.Module,
	ratelimit.Module,
	outbox.Module,
	fx.Provide(registerGin),
	organization.Module,
	taxrate.Module,
	taxprofile.Module,
	catalog.Module,
	channel.Module,
	location.Module,
	reason.Module,
	customergroup.Module,
	customer.Module,
	order.Module,
	inventory.Module,
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

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
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
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB

	organizationSvc  organizationdomain.Service
	taxRateSvc       taxratedomain.Service
	taxProfileSvc    taxprofiledomain.Service
	productSvc       catalogdomain.Service
	channelSvc       channeldomain.Service
	locationSvc      locationdomain.Service
	reasonSvc        reasondomain.Service
	customerSvc      customerdomain.Service
	customerGroupSvc customergroupdomain.Service
	orderSvc         orderdomain.Service
	inventorySvc     inventorydomain.Service

	obsMetrics    *obsmetrics.Metrics
	adjustLimiter *ratelimit.AdjustmentLimiter
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config
	DB  *gorm.DB

	OrganizationSvc  organizationdomain.Service
	TaxRateSvc       taxratedomain.Service
	TaxProfileSvc    taxprofiledomain.Service
	ProductSvc       catalogdomain.Service
	ChannelSvc       channeldomain.Service
	LocationSvc      locationdomain.Service
	ReasonSvc        reasondomain.Service
	CustomerSvc      customerdomain.Service
	CustomerGroupSvc customergroupdomain.Service
	OrderSvc         orderdomain.Service
	InventorySvc     inventorydomain.Service

	ObsMetrics    *obsmetrics.Metrics          `optional:"true"`
	AdjustLimiter *ratelimit.AdjustmentLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		db:               p.DB,
		organizationSvc:  p.OrganizationSvc,
		taxRateSvc:       p.TaxRateSvc,
		taxProfileSvc:    p.TaxProfileSvc,
		productSvc:       p.ProductSvc,
		channelSvc:       p.ChannelSvc,
		locationSvc:      p.LocationSvc,
		reasonSvc:        p.ReasonSvc,
		customerSvc:      p.CustomerSvc,
		customerGroupSvc: p.CustomerGroupSvc,
		orderSvc:         p.OrderSvc,
		inventorySvc:     p.InventorySvc,
		obsMetrics:       p.ObsMetrics,
		adjustLimiter:    p.AdjustLimiter,
	}

	svc.registerOrganizationRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerOrganizationRoutes exposes the tenant registry. These routes sit
// outside OrgContext: creating or listing orgs cannot require an org header.
func (s *Server) registerOrganizationRoutes() {
	orgs := s.engine.Group("/admin/organizations")

	orgs.GET("", s.ListOrganizations)
	orgs.POST("", s.CreateOrganization)
	orgs.GET("/:id", s.GetOrganizationByID)
	orgs.PATCH("/:id", s.UpdateOrganization)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.OrgContext())

	// -------- Tax rates --------
	admin.GET("/tax-rates", s.ListTaxRates)
	admin.POST("/tax-rates", s.CreateTaxRate)
	admin.GET("/tax-rates/:id", s.GetTaxRateByID)
	admin.PATCH("/tax-rates/:id", s.UpdateTaxRate)
	admin.POST("/tax-rates/:id/disable", s.DisableTaxRate)

	// -------- Tax profiles --------
	admin.GET("/tax-profiles", s.ListTaxProfiles)
	admin.POST("/tax-profiles", s.CreateTaxProfile)
	admin.GET("/tax-profiles/:id", s.GetTaxProfileByID)
	admin.PATCH("/tax-profiles/:id", s.UpdateTaxProfile)
	admin.POST("/tax-profiles/:id/disable", s.DisableTaxProfile)
	admin.GET("/tax-profiles/:id/resolve", s.ResolveTaxProfile)

	// -------- Products --------
	admin.GET("/products", s.ListProducts)
	admin.POST("/products", s.CreateProduct)
	admin.GET("/products/:id", s.GetProductByID)
	admin.PATCH("/products/:id", s.UpdateProduct)
	admin.POST("/products/:id/archive", s.ArchiveProduct)

	// -------- Channels --------
	admin.GET("/channels", s.ListChannels)
	admin.POST("/channels", s.CreateChannel)
	admin.GET("/channels/:id", s.GetChannelByID)
	admin.PATCH("/channels/:id", s.UpdateChannel)
	admin.POST("/channels/:id/disable", s.DisableChannel)

	// -------- Locations --------
	admin.GET("/locations", s.ListLocations)
	admin.POST("/locations", s.CreateLocation)
	admin.GET("/locations/:id", s.GetLocationByID)
	admin.PATCH("/locations/:id", s.UpdateLocation)
	admin.POST("/locations/:id/disable", s.DisableLocation)

	// -------- Adjustment reasons --------
	admin.GET("/adjustment-reasons", s.ListReasons)
	admin.POST("/adjustment-reasons", s.CreateReason)
	admin.GET("/adjustment-reasons/:id", s.GetReasonByID)
	admin.PATCH("/adjustment-reasons/:id", s.UpdateReason)
	admin.POST("/adjustment-reasons/:id/disable", s.DisableReason)

	// -------- Customer groups --------
	admin.GET("/customer-groups", s.ListCustomerGroups)
	admin.POST("/customer-groups", s.CreateCustomerGroup)
	admin.GET("/customer-groups/:id", s.GetCustomerGroupByID)
	admin.PATCH("/customer-groups/:id", s.UpdateCustomerGroup)
	admin.POST("/customer-groups/:id/disable", s.DisableCustomerGroup)

	// -------- Customers --------
	admin.GET("/customers", s.ListCustomers)
	admin.POST("/customers", s.CreateCustomer)
	admin.POST("/customers/seed", s.SeedCustomers)
	admin.GET("/customers/:id", s.GetCustomerByID)
	admin.PATCH("/customers/:id", s.UpdateCustomer)
	admin.POST("/customers/:id/deactivate", s.DeactivateCustomer)

	admin.GET("/customers/:id/contacts", s.ListCustomerContacts)
	admin.POST("/customers/:id/contacts", s.AddCustomerContact)
	admin.PATCH("/customers/:id/contacts/:contactId", s.UpdateCustomerContact)
	admin.DELETE("/customers/:id/contacts/:contactId", s.DeleteCustomerContact)

	admin.GET("/customers/:id/addresses", s.ListCustomerAddresses)
	admin.POST("/customers/:id/addresses", s.AddCustomerAddress)
	admin.PATCH("/customers/:id/addresses/:addressId", s.UpdateCustomerAddress)
	admin.DELETE("/customers/:id/addresses/:addressId", s.DeleteCustomerAddress)

	// -------- Orders --------
	admin.GET("/orders", s.ListOrders)
	admin.POST("/orders", s.CreateOrder)
	admin.POST("/orders/preview", s.PreviewOrderItem)
	admin.GET("/orders/:id", s.GetOrderByID)
	admin.POST("/orders/:id/items", s.AddOrderItem)
	admin.PUT("/orders/:id/items/:itemId", s.ReplaceOrderItem)
	admin.DELETE("/orders/:id/items/:itemId", s.RemoveOrderItem)
	admin.POST("/orders/:id/submit", s.SubmitOrder)
	admin.POST("/orders/:id/cancel", s.CancelOrder)

	// -------- Inventory --------
	admin.GET("/inventory/summary", s.GetStockSummary)
	admin.GET("/inventory/adjustments", s.ListStockAdjustments)
	admin.POST("/inventory/adjustments", s.AdjustmentRateLimit(), s.ApplyStockAdjustment)

	if s.cfg.Environment != "production" {
		admin.POST("/test/cleanup", s.TestCleanup)
	}
}
