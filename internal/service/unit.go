package service

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"text/template"
	"time"
)

// ErrPlatformNotSupported는 launchd/systemd가 없는 플랫폼에서 반환된다.
var ErrPlatformNotSupported = errors.New("service management not supported on this platform")

// Platform은 서비스 관리자 종류를 결정하는 OS 식별자다.
type Platform string

const (
	PlatformDarwin Platform = "darwin"
	PlatformLinux  Platform = "linux"
)

// CurrentPlatform은 실행 중인 OS를 반환한다.
func CurrentPlatform() Platform {
	return Platform(runtime.GOOS)
}

// Supported는 플랫폼에 서비스 관리자가 있는지 보고한다.
func (p Platform) Supported() bool {
	return p == PlatformDarwin || p == PlatformLinux
}

// ManagerName은 플랫폼의 서비스 관리자 이름을 반환한다.
func (p Platform) ManagerName() string {
	switch p {
	case PlatformDarwin:
		return "launchd"
	case PlatformLinux:
		return "systemd"
	default:
		return "unknown"
	}
}

// Label은 launchd 라벨이다.
func Label(name string) string {
	return "com.launchpad." + name
}

// UnitName은 systemd 유닛 이름이다.
func UnitName(name string) string {
	return "launchpad-" + name + ".service"
}

// UnitPath는 플랫폼별 유닛 파일 경로를 반환한다.
func UnitPath(p Platform, home, name string) (string, error) {
	switch p {
	case PlatformDarwin:
		return filepath.Join(home, "Library", "LaunchAgents", Label(name)+".plist"), nil
	case PlatformLinux:
		return filepath.Join(home, ".config", "systemd", "user", UnitName(name)), nil
	default:
		return "", fmt.Errorf("service.UnitPath: %s: %w", p, ErrPlatformNotSupported)
	}
}

// UnitOptions는 유닛 렌더링 옵션이다.
type UnitOptions struct {
	AutoRestart     bool
	Enabled         bool
	WorkingDir      string
	StartupTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type unitData struct {
	Def     Definition
	Label   string
	Program []string
	Env     []envPair
	Opts    UnitOptions
}

type envPair struct {
	Key, Value string
}

var funcs = template.FuncMap{
	"xml":     xmlEscape,
	"sdquote": systemdQuote,
	"sdenv":   systemdEnv,
	"seconds": func(d time.Duration) int { return int(d / time.Second) },
}

var plistTmpl = template.Must(template.New("plist").Funcs(funcs).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{xml .Label}}</string>
	<key>ProgramArguments</key>
	<array>
{{- range .Program}}
		<string>{{xml .}}</string>
{{- end}}
	</array>
{{- if .Opts.WorkingDir}}
	<key>WorkingDirectory</key>
	<string>{{xml .Opts.WorkingDir}}</string>
{{- end}}
{{- if .Env}}
	<key>EnvironmentVariables</key>
	<dict>
{{- range .Env}}
		<key>{{xml .Key}}</key>
		<string>{{xml .Value}}</string>
{{- end}}
	</dict>
{{- end}}
	<key>RunAtLoad</key>
	<{{if .Opts.Enabled}}true{{else}}false{{end}}/>
	<key>KeepAlive</key>
{{- if .Opts.AutoRestart}}
	<true/>
{{- else}}
	<dict>
		<key>SuccessfulExit</key>
		<false/>
	</dict>
{{- end}}
{{- if .Opts.ShutdownTimeout}}
	<key>ExitTimeOut</key>
	<integer>{{seconds .Opts.ShutdownTimeout}}</integer>
{{- end}}
	<key>StandardOutPath</key>
	<string>{{xml .Def.LogFile}}</string>
	<key>StandardErrorPath</key>
	<string>{{xml .Def.LogFile}}</string>
</dict>
</plist>
`))

var systemdTmpl = template.Must(template.New("systemd").Funcs(funcs).Parse(`[Unit]
Description={{.Def.DisplayName}} ({{.Def.Description}})
After=network.target

[Service]
Type=simple
ExecStart={{range $i, $a := .Program}}{{if $i}} {{end}}{{sdquote $a}}{{end}}
{{- if .Opts.WorkingDir}}
WorkingDirectory={{.Opts.WorkingDir}}
{{- end}}
{{- range .Env}}
Environment={{sdenv .Key .Value}}
{{- end}}
Restart={{if .Opts.AutoRestart}}always{{else}}on-failure{{end}}
{{- if .Opts.StartupTimeout}}
TimeoutStartSec={{seconds .Opts.StartupTimeout}}
{{- end}}
{{- if .Opts.ShutdownTimeout}}
TimeoutStopSec={{seconds .Opts.ShutdownTimeout}}
{{- end}}
StandardOutput=append:{{.Def.LogFile}}
StandardError=append:{{.Def.LogFile}}

[Install]
WantedBy=default.target
`))

// RenderUnit은 Resolve된 정의로 플랫폼별 유닛 파일 내용을 만든다.
func RenderUnit(p Platform, def Definition, opts UnitOptions) (string, error) {
	var tmpl *template.Template
	switch p {
	case PlatformDarwin:
		tmpl = plistTmpl
	case PlatformLinux:
		tmpl = systemdTmpl
	default:
		return "", fmt.Errorf("service.RenderUnit: %s: %w", p, ErrPlatformNotSupported)
	}

	data := unitData{
		Def:     def,
		Label:   Label(def.Name),
		Program: append([]string{def.Executable}, def.Args...),
		Opts:    opts,
	}
	keys := make([]string, 0, len(def.Env))
	for k := range def.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data.Env = append(data.Env, envPair{Key: k, Value: def.Env[k]})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("service.RenderUnit: %w", err)
	}
	return buf.String(), nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// systemdQuote는 공백이나 특수문자가 있는 인자를 큰따옴표로 감싼다.
func systemdQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\;$%") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `$$`, `%`, `%%`)
	return `"` + r.Replace(s) + `"`
}

// systemdEnv는 Environment= 항목을 감싼다. 이 위치에서는 $가 확장되지 않는다.
func systemdEnv(key, value string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `%`, `%%`)
	return `"` + key + "=" + r.Replace(value) + `"`
}
