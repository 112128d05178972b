package utility

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
)

type Config struct {
	Port int
	ENV  string
	DB   struct {
		DSN             string
		MaxOpenConn     int
		MaxIdleConn     int
		MaxIdleConnTime string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
}

func ParseFlags() *Config {
	var cfg Config
	flag.IntVar(&cfg.Port, "port", 8080, "API server Port")
	flag.StringVar(&cfg.ENV, "env", "dev", "Environment (dev|stag|prod)")
	// DB Flags
	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConn, "db-max-open-conn", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.DB.MaxIdleConn, "db-max-idle-conn", 25, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.DB.MaxIdleConnTime, "db-max-idle-time", "15m", "PostgreSQL max idle connection time")
	// Redis Flags
	flag.StringVar(&cfg.Redis.Addr, "redis-addr", "localhost:6379", "Redis address for the presence registry")
	flag.StringVar(&cfg.Redis.Password, "redis-password", "", "Redis password")
	flag.IntVar(&cfg.Redis.DB, "redis-db", 0, "Redis logical database")
	flag.Parse()
	return &cfg
}

// ConfigureSlog so that it easy to locate the source file & line as the Goland IDE picks up the relative file path.
func ConfigureSlog(writeTo io.Writer) {
	wd, err := os.Getwd()
	var tintHandler slog.Handler
	if err != nil {
		slog.Error("Unable to find working dir, falling back to default slog Config")
		tintHandler = tint.NewHandler(writeTo, &tint.Options{AddSource: true})
	} else {
		unixPath := filepath.ToSlash(wd)
		tintHandler = tint.NewHandler(writeTo, &tint.Options{
			AddSource: true,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == slog.SourceKey {
					source, ok := attr.Value.Any().(*slog.Source)
					relativePath := "." + strings.TrimPrefix(source.File, unixPath)
					var sb strings.Builder
					sb.WriteString(relativePath)
					sb.WriteString(":")
					sb.WriteString(strconv.Itoa(source.Line))
					if !ok {
						panic("Unable to assert type on source attr while configuring tint handler")
					}
					return slog.Attr{
						Key:   attr.Key,
						Value: slog.StringValue(sb.String()),
					}
				}
				return attr
			},
		})
	}
	slog.SetDefault(slog.New(tintHandler))
}
