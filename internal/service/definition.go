package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrUnknownService는 내장 정의 테이블에 없는 서비스 이름일 때 반환된다.
var ErrUnknownService = errors.New("unknown service")

// 정의 테이블의 경로 필드에 쓰이는 루트 플레이스홀더.
const (
	rootData   = "{servicesDir}"
	rootLogs   = "{logDir}"
	rootConfig = "{configDir}"
)

// HealthCheck는 서비스 상태 확인 명령이다.
type HealthCheck struct {
	Command          []string
	ExpectedExitCode int
	// Timeout은 초 단위다.
	Timeout int
}

// Definition은 관리 가능한 서비스 하나의 정의다.
// 경로 필드와 Args/Env는 Resolve 전까지 플레이스홀더를 포함한다.
type Definition struct {
	Name                     string
	DisplayName              string
	Description              string
	PackageDomain            string
	Executable               string
	Args                     []string
	Env                      map[string]string
	DataDirectory            string
	ConfigFile               string
	LogFile                  string
	PidFile                  string
	Port                     int
	Dependencies             []string
	HealthCheck              *HealthCheck
	InitCommand              []string
	SupportsGracefulShutdown bool
}

var definitions = map[string]Definition{
	"postgres": {
		Name:          "postgres",
		DisplayName:   "PostgreSQL",
		Description:   "PostgreSQL database server",
		PackageDomain: "postgresql.org",
		Executable:    "postgres",
		Args:          []string{"-D", "{dataDir}"},
		DataDirectory: rootData + "/postgres/data",
		LogFile:       rootLogs + "/postgres.log",
		PidFile:       rootData + "/postgres/postgres.pid",
		Port:          5432,
		HealthCheck: &HealthCheck{
			Command: []string{"pg_isready", "-p", "5432"}, Timeout: 5,
		},
		InitCommand:              []string{"initdb", "-D", "{dataDir}"},
		SupportsGracefulShutdown: true,
	},
	"mysql": {
		Name:          "mysql",
		DisplayName:   "MySQL",
		Description:   "MySQL database server",
		PackageDomain: "mysql.com",
		Executable:    "mysqld_safe",
		Args:          []string{"--datadir={dataDir}", "--pid-file={pidFile}"},
		DataDirectory: rootData + "/mysql/data",
		LogFile:       rootLogs + "/mysql.log",
		PidFile:       rootData + "/mysql/mysql.pid",
		Port:          3306,
		HealthCheck: &HealthCheck{
			Command: []string{"mysqladmin", "ping", "-h", "127.0.0.1", "-P", "3306"}, Timeout: 5,
		},
		InitCommand:              []string{"mysql_install_db", "--datadir={dataDir}"},
		SupportsGracefulShutdown: true,
	},
	"redis": {
		Name:          "redis",
		DisplayName:   "Redis",
		Description:   "Redis in-memory data store",
		PackageDomain: "redis.io",
		Executable:    "redis-server",
		Args:          []string{"{configFile}"},
		DataDirectory: rootData + "/redis/data",
		ConfigFile:    rootConfig + "/redis.conf",
		LogFile:       rootLogs + "/redis.log",
		PidFile:       rootData + "/redis/redis.pid",
		Port:          6379,
		HealthCheck: &HealthCheck{
			Command: []string{"redis-cli", "ping"}, Timeout: 5,
		},
		SupportsGracefulShutdown: true,
	},
	"nginx": {
		Name:          "nginx",
		DisplayName:   "Nginx",
		Description:   "Nginx web server",
		PackageDomain: "nginx.org",
		Executable:    "nginx",
		Args:          []string{"-c", "{configFile}", "-g", "daemon off;"},
		ConfigFile:    rootConfig + "/nginx.conf",
		LogFile:       rootLogs + "/nginx.log",
		PidFile:       rootData + "/nginx/nginx.pid",
		Port:          8080,
		HealthCheck: &HealthCheck{
			Command: []string{"curl", "-f", "-s", "http://localhost:8080/health"}, Timeout: 5,
		},
		SupportsGracefulShutdown: true,
	},
	"memcached": {
		Name:          "memcached",
		DisplayName:   "Memcached",
		Description:   "Memcached memory object caching system",
		PackageDomain: "memcached.org",
		Executable:    "memcached",
		Args:          []string{"-p", "{port}", "-m", "64", "-c", "1024"},
		Port:          11211,
		HealthCheck: &HealthCheck{
			Command: []string{"nc", "-z", "localhost", "11211"}, Timeout: 5,
		},
		SupportsGracefulShutdown: true,
	},
	"mongodb": {
		Name:          "mongodb",
		DisplayName:   "MongoDB",
		Description:   "MongoDB document database",
		PackageDomain: "mongodb.com",
		Executable:    "mongod",
		Args:          []string{"--dbpath", "{dataDir}", "--port", "{port}"},
		DataDirectory: rootData + "/mongodb/data",
		LogFile:       rootLogs + "/mongodb.log",
		PidFile:       rootData + "/mongodb/mongodb.pid",
		Port:          27017,
		HealthCheck: &HealthCheck{
			Command: []string{"mongo", "--eval", `db.runCommand("ping")`, "--quiet"}, Timeout: 5,
		},
		SupportsGracefulShutdown: true,
	},
	"rabbitmq": {
		Name:          "rabbitmq",
		DisplayName:   "RabbitMQ",
		Description:   "RabbitMQ message broker",
		PackageDomain: "rabbitmq.com",
		Executable:    "rabbitmq-server",
		Env: map[string]string{
			"RABBITMQ_MNESIA_BASE": "{dataDir}",
			"RABBITMQ_LOG_BASE":    rootLogs,
		},
		DataDirectory: rootData + "/rabbitmq/mnesia",
		LogFile:       rootLogs + "/rabbitmq.log",
		Port:          5672,
		HealthCheck: &HealthCheck{
			Command: []string{"rabbitmqctl", "status"}, Timeout: 10,
		},
		SupportsGracefulShutdown: true,
	},
	"caddy": {
		Name:          "caddy",
		DisplayName:   "Caddy",
		Description:   "Caddy web server with automatic HTTPS",
		PackageDomain: "caddyserver.com",
		Executable:    "caddy",
		Args:          []string{"run", "--config", "{configFile}", "--adapter", "caddyfile"},
		ConfigFile:    rootConfig + "/Caddyfile",
		LogFile:       rootLogs + "/caddy.log",
		Port:          2015,
		HealthCheck: &HealthCheck{
			Command: []string{"curl", "-f", "-s", "http://localhost:2015/health"}, Timeout: 5,
		},
		SupportsGracefulShutdown: true,
	},
	"vault": {
		Name:          "vault",
		DisplayName:   "HashiCorp Vault",
		Description:   "Secrets management and encryption as a service",
		PackageDomain: "vaultproject.io",
		Executable:    "vault",
		Args:          []string{"server", "-config", "{configFile}"},
		Env: map[string]string{
			"VAULT_API_ADDR": "http://localhost:{port}",
			"VAULT_ADDR":     "http://localhost:{port}",
		},
		DataDirectory: rootData + "/vault/data",
		ConfigFile:    rootConfig + "/vault.hcl",
		LogFile:       rootLogs + "/vault.log",
		Port:          8200,
		// sealed 상태에서도 실행 중이면 2를 반환한다.
		HealthCheck: &HealthCheck{
			Command: []string{"vault", "status"}, ExpectedExitCode: 2, Timeout: 5,
		},
		SupportsGracefulShutdown: true,
	},
	"minio": {
		Name:          "minio",
		DisplayName:   "MinIO",
		Description:   "S3 compatible object storage",
		PackageDomain: "min.io",
		Executable:    "minio",
		Args:          []string{"server", "{dataDir}", "--address", "localhost:{port}", "--console-address", "localhost:9001"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		DataDirectory: rootData + "/minio/data",
		LogFile:       rootLogs + "/minio.log",
		Port:          9000,
		HealthCheck: &HealthCheck{
			Command: []string{"curl", "-f", "-s", "http://localhost:9000/minio/health/live"}, Timeout: 5,
		},
		SupportsGracefulShutdown: true,
	},
}

// Lookup은 이름(대소문자 무시)으로 정의를 찾는다.
func Lookup(name string) (Definition, bool) {
	def, ok := definitions[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// Supported는 name이 내장 정의에 있는지 보고한다.
func Supported(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Names는 내장 서비스 이름을 정렬해 반환한다.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All은 내장 정의를 이름 순으로 반환한다.
func All() []Definition {
	names := Names()
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, definitions[name])
	}
	return defs
}

// ByPackage는 패키지 도메인에 대응하는 정의들을 반환한다.
func ByPackage(domain string) []Definition {
	var defs []Definition
	for _, def := range All() {
		if def.PackageDomain == domain {
			defs = append(defs, def)
		}
	}
	return defs
}

// Detect는 설치된 패키지 도메인 목록에서 관리 가능한 서비스를 찾는다.
// "postgresql.org@15" 처럼 제약이 붙은 항목도 도메인으로 비교한다.
func Detect(packages []string) []Definition {
	seen := make(map[string]bool)
	var defs []Definition
	for _, pkg := range packages {
		domain := pkg
		if i := strings.LastIndex(pkg, "@"); i > 0 {
			domain = pkg[:i]
		}
		for _, def := range ByPackage(domain) {
			if seen[def.Name] {
				continue
			}
			seen[def.Name] = true
			defs = append(defs, def)
		}
	}
	return defs
}
