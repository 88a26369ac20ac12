package router

import (
	"time"

	"gestaomesas/internal/config"
	"gestaomesas/internal/handler"
	"gestaomesas/internal/middleware"
	"gestaomesas/internal/repository"
	"gestaomesas/internal/service"
	"gestaomesas/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	colaboradorRepo := repository.NewColaboradorRepository(db)
	rotaRepo := repository.NewRotaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	mesaRepo := repository.NewMesaRepository(db)
	cicloRepo := repository.NewCicloRepository(db)
	acertoRepo := repository.NewAcertoRepository(db)
	despesaRepo := repository.NewDespesaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(colaboradorRepo, cfg)
	rotaSvc := service.NewRotaService(rotaRepo, clienteRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	mesaSvc := service.NewMesaService(mesaRepo, clienteRepo)
	cicloSvc := service.NewCicloService(cicloRepo, acertoRepo, despesaRepo)
	acertoSvc := service.NewAcertoService(acertoRepo, clienteRepo, cicloRepo, mesaRepo, cicloSvc, dispatcher)
	despesaSvc := service.NewDespesaService(despesaRepo, cicloRepo, cicloSvc)
	syncSvc := service.NewSyncService(acertoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	colaboradoresH := handler.NewColaboradoresHandler(authSvc)
	rotasH := handler.NewRotasHandler(rotaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	mesasH := handler.NewMesasHandler(mesaSvc)
	ciclosH := handler.NewCiclosHandler(cicloSvc)
	acertosH := handler.NewAcertosHandler(acertoSvc)
	despesasH := handler.NewDespesasHandler(despesaSvc)
	syncH := handler.NewSyncHandler(syncSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: representante, supervisor, administrador — declared per-endpoint
		todos := middleware.RequireRole("representante", "supervisor", "administrador")
		gestao := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		// Acertos — o fluxo central da visita à rota
		v1.GET("/acertos/preparar/:cliente_id", todos, acertosH.Preparar)
		v1.POST("/acertos", todos, acertosH.Salvar)
		v1.GET("/acertos/:id", todos, acertosH.BuscarPorID)

		// Ciclos
		v1.POST("/ciclos", gestao, ciclosH.Iniciar)
		v1.GET("/ciclos/:id", todos, ciclosH.BuscarPorID)
		v1.POST("/ciclos/:id/finalizar", gestao, ciclosH.Finalizar)
		v1.DELETE("/ciclos/:id", gestao, ciclosH.Cancelar)
		v1.GET("/ciclos/:id/resumo", todos, ciclosH.Resumo)
		v1.GET("/ciclos/:id/acertos", todos, acertosH.ListPorCiclo)
		v1.GET("/ciclos/:id/despesas", todos, despesasH.ListPorCiclo)

		// Rotas — leitura para todos, escrita restrita
		v1.GET("/rotas", todos, rotasH.Listar)
		v1.GET("/rotas/:rota_id", todos, rotasH.BuscarPorID)
		v1.GET("/rotas/:rota_id/ciclos", todos, ciclosH.ListPorRota)
		v1.GET("/rotas/:rota_id/ciclos/ativo", todos, ciclosH.CicloAtivo)
		v1.GET("/rotas/:rota_id/clientes", todos, clientesH.ListPorRota)
		rotas := v1.Group("/rotas", admin)
		{
			rotas.POST("", rotasH.Criar)
			rotas.PUT("/:rota_id", rotasH.Atualizar)
		}

		// Clientes
		v1.GET("/clientes/:cliente_id", todos, clientesH.BuscarPorID)
		v1.GET("/clientes/:cliente_id/acertos", todos, acertosH.HistoricoPorCliente)
		v1.GET("/clientes/:cliente_id/mesas", todos, mesasH.ListPorCliente)
		clientes := v1.Group("/clientes", gestao)
		{
			clientes.POST("", clientesH.Criar)
			clientes.PUT("/:cliente_id", clientesH.Atualizar)
			clientes.DELETE("/:cliente_id", clientesH.Desativar)
		}

		// Mesas
		v1.GET("/mesas/:id", todos, mesasH.BuscarPorID)
		v1.GET("/mesas/deposito", todos, mesasH.ListDeposito)
		mesas := v1.Group("/mesas", gestao)
		{
			mesas.POST("", mesasH.Criar)
			mesas.PUT("/:id", mesasH.Atualizar)
			mesas.POST("/:id/transferir", mesasH.Transferir)
		}

		// Despesas
		v1.POST("/despesas", todos, despesasH.Registrar)

		// Sincronização com o sistema central
		v1.GET("/sync/:acerto_id", todos, syncH.Status)
		v1.POST("/sync/:acerto_id/reenviar", gestao, syncH.Reenviar)

		colaboradores := v1.Group("/colaboradores", admin)
		{
			colaboradores.POST("", colaboradoresH.Criar)
			colaboradores.GET("", colaboradoresH.Listar)
			colaboradores.PUT("/:id", colaboradoresH.Atualizar)
			colaboradores.DELETE("/:id", colaboradoresH.Desativar)
			colaboradores.PATCH("/:id/reactivar", colaboradoresH.Reativar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
