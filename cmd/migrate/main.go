package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"readplan/internal/logging"
	"readplan/migrations"
)

const usage = `Usage: migrate [-dir ./migrations] <up|down|status|version|create NAME>`

func main() {
	dir := flag.String("dir", "./migrations", "migrations directory, used by create")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	envErr := godotenv.Load()

	logger, err := logging.New(getEnv("LOG_LEVEL", "info"), true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	if err := run(logger, command, flag.Args(), *dir); err != nil {
		logger.Fatal("Migration failed", zap.String("command", command), zap.Error(err))
	}
}

func run(logger *zap.Logger, command string, args []string, dir string) error {
	if command == "create" {
		// New files are written to disk, not to the embedded set
		if len(args) < 2 {
			return fmt.Errorf("missing migration name\n%s", usage)
		}
		if err := goose.Create(nil, dir, args[1], "sql"); err != nil {
			return err
		}
		logger.Info("Created migration", zap.String("name", args[1]), zap.String("dir", dir))
		return nil
	}

	db, err := openDB(logger)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("clickhouse"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	logger.Info("Running migrations", zap.String("command", command))
	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "version":
		var version int64
		if version, err = goose.GetDBVersion(db); err == nil {
			logger.Info("Current migration version", zap.Int64("version", version))
		}
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
	if err != nil {
		return err
	}
	logger.Info("Migrations finished", zap.String("command", command))
	return nil
}

// openDB connects with the same CLICKHOUSE_* variables the bot reads
func openDB(logger *zap.Logger) (*sql.DB, error) {
	host := getEnv("CLICKHOUSE_HOST", "localhost")
	port := getEnv("CLICKHOUSE_PORT", "9000")
	database := getEnv("CLICKHOUSE_DATABASE", "default")

	dsn := fmt.Sprintf("clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&max_execution_time=60",
		getEnv("CLICKHOUSE_USER", "default"), os.Getenv("CLICKHOUSE_PASSWORD"), host, port, database)
	if os.Getenv("CLICKHOUSE_USE_TLS") == "true" {
		dsn += "&secure=true"
	}

	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to ClickHouse", zap.String("host", host), zap.String("database", database))
	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
