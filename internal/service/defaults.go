package service

import (
	"fmt"
	"path/filepath"
)

// DefaultConfig는 Resolve된 정의에 대한 기본 설정 파일 내용을 반환한다.
// 기본 설정이 없는 서비스면 false.
func DefaultConfig(def Definition, p Paths) (string, bool) {
	switch def.Name {
	case "redis":
		return fmt.Sprintf(`# Redis configuration file
port %d
bind 127.0.0.1
save 900 1
save 300 10
save 60 10000
rdbcompression yes
dbfilename dump.rdb
dir %s
logfile %s
loglevel notice
`, def.Port, def.DataDirectory, def.LogFile), true

	case "nginx":
		return fmt.Sprintf(`# Nginx configuration file
worker_processes auto;
error_log %s;
pid %s;

events {
    worker_connections 1024;
}

http {
    default_type  application/octet-stream;
    access_log %s;

    sendfile on;
    keepalive_timeout 65;

    server {
        listen %d;
        server_name localhost;

        location / {
            root %s;
            index index.html index.htm;
        }

        location /health {
            access_log off;
            return 200 "healthy\n";
            add_header Content-Type text/plain;
        }
    }
}
`, filepath.Join(p.LogDir, "nginx-error.log"), def.PidFile,
			filepath.Join(p.LogDir, "nginx-access.log"), def.Port,
			filepath.Join(p.DataDir, "nginx", "html")), true

	case "caddy":
		return fmt.Sprintf(`# Caddyfile
:%d {
    respond /health "healthy"
    file_server browse
    root * %s
}
`, def.Port, filepath.Join(p.DataDir, "caddy", "html")), true

	case "vault":
		return fmt.Sprintf(`# Vault configuration
storage "file" {
  path = %q
}

listener "tcp" {
  address     = "127.0.0.1:%d"
  tls_disable = 1
}

api_addr = "http://127.0.0.1:%d"
ui = true
disable_mlock = true
`, def.DataDirectory, def.Port, def.Port), true
	}
	return "", false
}
