package service

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Paths는 서비스 파일이 놓일 루트 디렉토리들이다.
type Paths struct {
	DataDir   string
	LogDir    string
	ConfigDir string
}

// Resolve는 정의의 플레이스홀더를 실제 경로로 치환한 사본을 반환한다.
// 루트({servicesDir}, {logDir}, {configDir})를 먼저 채운 뒤
// Args/Env/InitCommand의 {dataDir}, {configFile}, {logFile}, {pidFile}, {port}를 채운다.
func Resolve(def Definition, p Paths) Definition {
	roots := strings.NewReplacer(
		rootData, p.DataDir,
		rootLogs, p.LogDir,
		rootConfig, p.ConfigDir,
	)
	out := def
	out.DataDirectory = cleanPath(roots.Replace(def.DataDirectory))
	out.ConfigFile = cleanPath(roots.Replace(def.ConfigFile))
	out.LogFile = cleanPath(roots.Replace(def.LogFile))
	out.PidFile = cleanPath(roots.Replace(def.PidFile))
	if out.LogFile == "" {
		out.LogFile = filepath.Join(p.LogDir, def.Name+".log")
	}

	fields := strings.NewReplacer(
		"{dataDir}", out.DataDirectory,
		"{configFile}", out.ConfigFile,
		"{logFile}", out.LogFile,
		"{pidFile}", out.PidFile,
		"{port}", strconv.Itoa(def.Port),
		rootData, p.DataDir,
		rootLogs, p.LogDir,
		rootConfig, p.ConfigDir,
	)
	out.Args = replaceAll(fields, def.Args)
	out.InitCommand = replaceAll(fields, def.InitCommand)
	if def.Env != nil {
		out.Env = make(map[string]string, len(def.Env))
		for k, v := range def.Env {
			out.Env[k] = fields.Replace(v)
		}
	}
	if def.HealthCheck != nil {
		hc := *def.HealthCheck
		hc.Command = replaceAll(fields, def.HealthCheck.Command)
		out.HealthCheck = &hc
	}
	out.Dependencies = append([]string(nil), def.Dependencies...)
	return out
}

func replaceAll(r *strings.Replacer, in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = r.Replace(s)
	}
	return out
}

func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}
