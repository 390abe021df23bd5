package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacksjs/launchpad/internal/service"
)

var testPaths = service.Paths{
	DataDir:   "/data/services",
	LogDir:    "/data/logs",
	ConfigDir: "/data/services/config",
}

func TestLookup_CaseInsensitive(t *testing.T) {
	def, ok := service.Lookup("  PostgreS ")
	require.True(t, ok)
	assert.Equal(t, "postgres", def.Name)
	assert.Equal(t, "PostgreSQL", def.DisplayName)
	assert.Equal(t, "postgresql.org", def.PackageDomain)
	assert.True(t, def.SupportsGracefulShutdown)
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := service.Lookup("nonexistent-service")
	assert.False(t, ok)
	assert.False(t, service.Supported("nonexistent-service"))
	assert.True(t, service.Supported("redis"))
}

func TestDefinitions_Ports(t *testing.T) {
	tests := map[string]int{
		"postgres": 5432,
		"mysql":    3306,
		"redis":    6379,
		"mongodb":  27017,
		"nginx":    8080,
	}
	for name, port := range tests {
		def, ok := service.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, port, def.Port, name)
	}
}

func TestDefinitions_HealthChecks(t *testing.T) {
	pg, _ := service.Lookup("postgres")
	require.NotNil(t, pg.HealthCheck)
	assert.Contains(t, pg.HealthCheck.Command, "pg_isready")
	assert.Equal(t, 0, pg.HealthCheck.ExpectedExitCode)

	vault, _ := service.Lookup("vault")
	require.NotNil(t, vault.HealthCheck)
	assert.Equal(t, 2, vault.HealthCheck.ExpectedExitCode)
}

func TestNames_Sorted(t *testing.T) {
	names := service.Names()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "postgres")
	assert.Contains(t, names, "redis")
	assert.Len(t, service.All(), len(names))
}

func TestDetect_MatchesPackageDomains(t *testing.T) {
	defs := service.Detect([]string{"postgresql.org@15", "redis.io", "redis.io@7", "nodejs.org"})

	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"postgres", "redis"}, names)
}

func TestResolve_SubstitutesPlaceholders(t *testing.T) {
	def, _ := service.Lookup("postgres")
	got := service.Resolve(def, testPaths)

	assert.Equal(t, "/data/services/postgres/data", got.DataDirectory)
	assert.Equal(t, "/data/logs/postgres.log", got.LogFile)
	assert.Equal(t, []string{"-D", "/data/services/postgres/data"}, got.Args)
	assert.Equal(t, []string{"initdb", "-D", "/data/services/postgres/data"}, got.InitCommand)

	again, _ := service.Lookup("postgres")
	assert.Equal(t, "{dataDir}", again.Args[1], "table must not be mutated")
}

func TestResolve_EnvAndPort(t *testing.T) {
	def, _ := service.Lookup("rabbitmq")
	got := service.Resolve(def, testPaths)
	assert.Equal(t, "/data/services/rabbitmq/mnesia", got.Env["RABBITMQ_MNESIA_BASE"])
	assert.Equal(t, "/data/logs", got.Env["RABBITMQ_LOG_BASE"])

	def, _ = service.Lookup("memcached")
	got = service.Resolve(def, testPaths)
	assert.Equal(t, "11211", got.Args[1])
	assert.Equal(t, "/data/logs/memcached.log", got.LogFile)
}

func TestResolve_ConfigFile(t *testing.T) {
	def, _ := service.Lookup("redis")
	got := service.Resolve(def, testPaths)
	assert.Equal(t, "/data/services/config/redis.conf", got.ConfigFile)
	assert.Equal(t, []string{"/data/services/config/redis.conf"}, got.Args)
}

func TestPlatform(t *testing.T) {
	assert.True(t, service.PlatformDarwin.Supported())
	assert.True(t, service.PlatformLinux.Supported())
	assert.False(t, service.Platform("windows").Supported())

	assert.Equal(t, "launchd", service.PlatformDarwin.ManagerName())
	assert.Equal(t, "systemd", service.PlatformLinux.ManagerName())
	assert.Equal(t, "unknown", service.Platform("windows").ManagerName())
}

func TestUnitPath(t *testing.T) {
	p, err := service.UnitPath(service.PlatformDarwin, "/home/dev", "redis")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/Library/LaunchAgents/com.launchpad.redis.plist", p)

	p, err = service.UnitPath(service.PlatformLinux, "/home/dev", "redis")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/.config/systemd/user/launchpad-redis.service", p)

	_, err = service.UnitPath("windows", "/home/dev", "redis")
	assert.ErrorIs(t, err, service.ErrPlatformNotSupported)
}

func TestRenderUnit_Launchd(t *testing.T) {
	def, _ := service.Lookup("postgres")
	out, err := service.RenderUnit(service.PlatformDarwin, service.Resolve(def, testPaths), service.UnitOptions{Enabled: true})
	require.NoError(t, err)

	assert.Contains(t, out, "<string>com.launchpad.postgres</string>")
	assert.Contains(t, out, "<string>postgres</string>\n\t\t<string>-D</string>")
	assert.Contains(t, out, "<key>RunAtLoad</key>\n\t<true/>")
	assert.Contains(t, out, "<key>SuccessfulExit</key>")
	assert.Contains(t, out, "<key>StandardOutPath</key>\n\t<string>/data/logs/postgres.log</string>")
	assert.NotContains(t, out, "EnvironmentVariables")
}

func TestRenderUnit_LaunchdEscapesAndEnv(t *testing.T) {
	def := service.Definition{
		Name:       "demo",
		Executable: "demo",
		Args:       []string{"--motd", "a & b <c>"},
		Env:        map[string]string{"B": "2", "A": "1"},
		LogFile:    "/logs/demo.log",
	}
	out, err := service.RenderUnit(service.PlatformDarwin, def, service.UnitOptions{AutoRestart: true})
	require.NoError(t, err)

	assert.Contains(t, out, "<string>a &amp; b &lt;c&gt;</string>")
	assert.Less(t, strings.Index(out, "<key>A</key>"), strings.Index(out, "<key>B</key>"))
	assert.Contains(t, out, "<key>KeepAlive</key>\n\t<true/>")
	assert.Contains(t, out, "<key>RunAtLoad</key>\n\t<false/>")
}

func TestRenderUnit_Systemd(t *testing.T) {
	def, _ := service.Lookup("nginx")
	out, err := service.RenderUnit(service.PlatformLinux, service.Resolve(def, testPaths), service.UnitOptions{})
	require.NoError(t, err)

	assert.Contains(t, out, "Description=Nginx (Nginx web server)")
	assert.Contains(t, out, "Type=simple\n")
	assert.Contains(t, out, `ExecStart=nginx -c /data/services/config/nginx.conf -g "daemon off;"`)
	assert.Contains(t, out, "Restart=on-failure\n")
	assert.Contains(t, out, "WantedBy=default.target")
	assert.NotContains(t, out, "TimeoutStartSec")
}

func TestRenderUnit_SystemdEnvAndTimeouts(t *testing.T) {
	def, _ := service.Lookup("minio")
	opts := service.UnitOptions{AutoRestart: true, StartupTimeout: 30 * time.Second, ShutdownTimeout: 10 * time.Second}
	out, err := service.RenderUnit(service.PlatformLinux, service.Resolve(def, testPaths), opts)
	require.NoError(t, err)

	assert.Contains(t, out, `Environment="MINIO_ROOT_PASSWORD=minioadmin"`)
	assert.Less(t, strings.Index(out, "MINIO_ROOT_PASSWORD"), strings.Index(out, "MINIO_ROOT_USER"))
	assert.Contains(t, out, "--address localhost:9000")
	assert.Contains(t, out, "Restart=always\n")
	assert.Contains(t, out, "TimeoutStartSec=30\n")
	assert.Contains(t, out, "TimeoutStopSec=10\n")
}

func TestRenderUnit_Unsupported(t *testing.T) {
	def, _ := service.Lookup("redis")
	_, err := service.RenderUnit("windows", def, service.UnitOptions{})
	assert.ErrorIs(t, err, service.ErrPlatformNotSupported)
}

func TestDefaultConfig(t *testing.T) {
	def, _ := service.Lookup("redis")
	conf, ok := service.DefaultConfig(service.Resolve(def, testPaths), testPaths)
	require.True(t, ok)
	assert.Contains(t, conf, "port 6379\n")
	assert.Contains(t, conf, "dir /data/services/redis/data\n")
	assert.Contains(t, conf, "logfile /data/logs/redis.log\n")

	def, _ = service.Lookup("caddy")
	conf, ok = service.DefaultConfig(service.Resolve(def, testPaths), testPaths)
	require.True(t, ok)
	assert.Contains(t, conf, ":2015 {")

	def, _ = service.Lookup("postgres")
	_, ok = service.DefaultConfig(service.Resolve(def, testPaths), testPaths)
	assert.False(t, ok)
}
