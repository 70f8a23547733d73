package config

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr            string
	GinMode            string
	CORSAllowedOrigins []string

	JWTSecret string
	JWTTTL    time.Duration
	AdminPINs []AdminPIN

	AirtableAPIKey string
	AirtableBaseID string
	AirtableAPIURL string

	MakeWebhookURL       string
	MakePointsWebhookURL string

	GroqAPIKey     string
	GroqModel      string
	GroqAPIURL     string
	ChatRatePerMin int

	CacheDriver   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheWarmSpec string

	MySQLDSN    string
	HTTPTimeout time.Duration

	errs []string
}

// AdminPIN is one entry of ADMIN_PINS ("pin:role:name").
type AdminPIN struct {
	PIN  string
	Role string
	Name string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("advertencia: no se pudo leer .env: %v", err)
	}

	e := Env{
		AppAddr:            str("APP_ADDR", ":8080"),
		GinMode:            str("GIN_MODE", ""),
		CORSAllowedOrigins: list("CORS_ALLOWED_ORIGINS", defaultOrigins),
		JWTSecret:          str("JWT_SECRET", ""),
		AirtableAPIKey:     str("AIRTABLE_API_KEY", ""),
		AirtableBaseID:     str("AIRTABLE_BASE_ID", ""),
		AirtableAPIURL:     strings.TrimRight(str("AIRTABLE_API_URL", "https://api.airtable.com/v0"), "/"),
		MakeWebhookURL:     str("MAKE_WEBHOOK_URL", ""),
		GroqAPIKey:         str("GROQ_API_KEY", ""),
		GroqModel:          str("GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqAPIURL:         strings.TrimRight(str("GROQ_API_URL", "https://api.groq.com/openai/v1"), "/"),
		CacheDriver:        strings.ToLower(str("CACHE_DRIVER", "memory")),
		RedisAddr:          str("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:      str("REDIS_PASSWORD", ""),
		CacheWarmSpec:      str("CACHE_WARM_SPEC", "@every 10m"),
		MySQLDSN:           str("MYSQL_DSN", ""),
	}
	if e.JWTSecret == "" && e.GinMode != "release" {
		// tokens do not survive a restart
		e.JWTSecret = rand.Text()
		log.Println("advertencia: JWT_SECRET vacío, usando un secreto aleatorio de desarrollo")
	}
	e.MakePointsWebhookURL = str("MAKE_POINTS_WEBHOOK_URL", e.MakeWebhookURL)
	e.JWTTTL = e.duration("JWT_TTL", 24*time.Hour)
	e.HTTPTimeout = e.duration("HTTP_TIMEOUT", 15*time.Second)
	e.ChatRatePerMin = e.integer("CHAT_RATE_PER_MIN", 20)
	e.RedisDB = e.integer("REDIS_DB", 0)
	e.AdminPINs = e.parsePINs(str("ADMIN_PINS", ""))
	return e
}

// Validate reports malformed values collected while loading.
func (e Env) Validate() error {
	if len(e.errs) > 0 {
		return fmt.Errorf("configuración inválida: %s", strings.Join(e.errs, "; "))
	}
	if e.JWTSecret == "" {
		return fmt.Errorf("configuración inválida: JWT_SECRET es requerido en modo %s", e.GinMode)
	}
	switch e.CacheDriver {
	case "memory", "redis":
	default:
		return fmt.Errorf("configuración inválida: CACHE_DRIVER %q desconocido", e.CacheDriver)
	}
	return nil
}

func (e *Env) duration(key string, def time.Duration) time.Duration {
	raw := str(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		e.errs = append(e.errs, key+" no es una duración válida")
		return def
	}
	return d
}

func (e *Env) integer(key string, def int) int {
	raw := str(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		e.errs = append(e.errs, key+" no es un número válido")
		return def
	}
	return n
}

func (e *Env) parsePINs(raw string) []AdminPIN {
	out := []AdminPIN{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 3)
		if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" || strings.TrimSpace(fields[1]) == "" {
			e.errs = append(e.errs, "ADMIN_PINS contiene una entrada inválida")
			continue
		}
		pin := AdminPIN{PIN: strings.TrimSpace(fields[0]), Role: strings.ToLower(strings.TrimSpace(fields[1]))}
		if len(fields) == 3 {
			pin.Name = strings.TrimSpace(fields[2])
		}
		out = append(out, pin)
	}
	return out
}

func str(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func list(key string, def []string) []string {
	raw := str(key, "")
	if raw == "" {
		return def
	}
	out := []string{}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
