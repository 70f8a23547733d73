package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guanago/internal/airtable"
	"guanago/internal/cache"
	intconfig "guanago/internal/config"
	"guanago/internal/groq"
	router "guanago/internal/http"
	"guanago/internal/http/handlers"
	"guanago/internal/repositories"
	"guanago/internal/services"
	"guanago/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	env := intconfig.LoadEnv()
	if err := env.Validate(); err != nil {
		log.Fatal(err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.MySQLDSN)
	defer intconfig.CloseDB()

	activity := repositories.ActivityRepo{DB: db}
	if err := activity.EnsureTable(context.Background()); err != nil {
		log.Printf("No se pudo preparar activity_log: %v", err)
	}

	store := newCacheStore(env)
	swr := cache.NewSWR(store, cache.Options{RefreshTimeout: 2 * env.HTTPTimeout})

	at := airtable.NewClient(env)
	if !at.Configured() {
		log.Println("AIRTABLE_API_KEY/AIRTABLE_BASE_ID vacíos: el catálogo usará datos de respaldo")
	}
	hooks := webhook.NewClient(env.MakeWebhookURL, env.HTTPTimeout)
	pointsHooks := webhook.NewClient(env.MakePointsWebhookURL, env.HTTPTimeout)

	catalog := &services.CatalogService{
		Services:       repositories.ServiceRepo{AT: at},
		Places:         repositories.DirectoryRepo{AT: at},
		Accommodations: repositories.AccommodationRepo{AT: at},
		Cache:          swr,
	}
	if err := catalog.RegisterFallbacks(); err != nil {
		log.Fatalf("Datos de respaldo inválidos: %v", err)
	}

	auth := services.AuthService{
		Users:    repositories.UserRepo{AT: at},
		Secret:   []byte(env.JWTSecret),
		TTL:      env.JWTTTL,
		PINs:     env.AdminPINs,
		Activity: activity,
	}

	warmer, err := services.NewWarmer(env.CacheWarmSpec, catalog, 2*env.HTTPTimeout)
	if err != nil {
		log.Fatalf("CACHE_WARM_SPEC inválido: %v", err)
	}
	if at.Configured() {
		go func() { _ = warmer.RunOnce(context.Background()) }()
		warmer.Start()
	}

	deps := &handlers.API{
		Catalog: catalog,
		Auth:    auth,
		Reservations: services.ReservationService{
			Reservations: repositories.ReservationRepo{AT: at},
			Catalog:      catalog,
			Hooks:        hooks,
			Activity:     activity,
		},
		Quotes: services.QuoteService{
			Quotes:   repositories.QuoteRepo{AT: at},
			Catalog:  catalog,
			Activity: activity,
			Cache:    swr,
		},
		Docs:      services.DocsService{},
		Points:    services.PointsService{Hooks: pointsHooks, Activity: activity},
		Concierge: services.ChatService{LLM: groq.NewClient(env), Catalog: catalog, Model: env.GroqModel},
		Cache:     swr,
		Activity:  activity,
		Warmer:    warmer,
	}

	r := router.NewRouter(env, deps, auth)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("GuanaGO API escuchando en http://localhost%s (cache=%s)", env.AppAddr, env.CacheDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("No se pudo iniciar el servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Apagando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	warmer.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Falló el apagado del servidor: %v", err)
	}
	swr.Wait()

	log.Println("Servidor detenido correctamente.")
}

// newCacheStore picks the SWR backend. Redis falls back to memory when unreachable at boot.
func newCacheStore(env intconfig.Env) cache.Store {
	if env.CacheDriver != "redis" {
		return cache.NewMemoryStore(time.Hour)
	}
	rs := cache.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Printf("Redis no disponible en %s (%v): usando caché en memoria", env.RedisAddr, err)
		return cache.NewMemoryStore(time.Hour)
	}
	return rs
}
