package sniff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrMalformed는 manifest 구조가 예상과 다를 때의 sentinel error다.
var ErrMalformed = errors.New("malformed manifest")

// YAMLSniffer는 YAML manifest(dependencies.yaml 등)를 해석하는 Sniffer 구현이다.
type YAMLSniffer struct {
	Fs afero.Fs
}

var _ Sniffer = (*YAMLSniffer)(nil)

// Sniff는 dir의 manifest를 읽어 Result를 반환한다. manifest가 없으면 빈 Result다.
func (s *YAMLSniffer) Sniff(ctx context.Context, dir string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("sniff.Sniff: %w", err)
	}
	path, ok := FindManifest(s.Fs, dir)
	if !ok {
		return Result{}, nil
	}
	data, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return Result{}, fmt.Errorf("sniff.Sniff: %w", err)
	}
	res, err := Parse(data)
	if err != nil {
		return Result{}, fmt.Errorf("sniff.Sniff: %s: %w", path, err)
	}
	res.File = path
	return res, nil
}

// Parse는 YAML manifest 내용을 해석한다.
//
// dependencies는 mapping(name: constraint 또는 name: {version, global}),
// "name@constraint" 목록, 공백 구분 문자열을 모두 받는다.
// env는 선언 순서를 유지한다. alias와 병합 키(<<)는 풀어서 해석한다.
func Parse(data []byte) (Result, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Result{}, err
	}
	if len(doc.Content) == 0 {
		return Result{}, nil
	}
	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return Result{}, fmt.Errorf("%w: top level must be a mapping", ErrMalformed)
	}

	var (
		res       Result
		depsNode  *yaml.Node
		allGlobal bool
	)
	for _, kv := range mappingPairs(root) {
		switch kv.key {
		case "dependencies":
			depsNode = kv.val
		case "global":
			if err := kv.val.Decode(&allGlobal); err != nil {
				return Result{}, fmt.Errorf("%w: global: %v", ErrMalformed, err)
			}
		case "env":
			env, err := parseEnv(kv.val)
			if err != nil {
				return Result{}, err
			}
			res.Env = env
		}
	}

	if depsNode != nil {
		pkgs, err := parseDependencies(depsNode, allGlobal)
		if err != nil {
			return Result{}, err
		}
		res.Packages = pkgs
	}
	return res, nil
}

type pair struct {
	key string
	val *yaml.Node
}

// deref는 alias 노드를 대상 노드로 푼다.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isMerge(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.Value == "<<" && (k.Tag == "" || k.Tag == "!" || k.ShortTag() == "!!merge")
}

// mappingPairs는 mapping의 key/value 쌍을 처음 등장한 순서로 반환한다.
// 병합 키(<<)가 가리키는 mapping의 쌍을 펼치며, 명시한 key가 병합된 값보다 우선한다.
func mappingPairs(node *yaml.Node) []pair {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if k := node.Content[i]; !isMerge(k) {
			explicit[k.Value] = true
		}
	}

	var out []pair
	index := make(map[string]int)
	add := func(key string, val *yaml.Node, override bool) {
		if i, ok := index[key]; ok {
			if override {
				out[i].val = val
			}
			return
		}
		index[key] = len(out)
		out = append(out, pair{key: key, val: val})
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], deref(node.Content[i+1])
		if !isMerge(k) {
			add(k.Value, v, true)
			continue
		}
		sources := []*yaml.Node{v}
		if v.Kind == yaml.SequenceNode {
			sources = v.Content
		}
		for _, src := range sources {
			if src = deref(src); src.Kind != yaml.MappingNode {
				continue
			}
			for _, kv := range mappingPairs(src) {
				if !explicit[kv.key] {
					add(kv.key, kv.val, false)
				}
			}
		}
	}
	return out
}

// stringify는 스칼라가 아닌 값을 문자열화한다. classify가 이를 wildcard로 정규화한다.
func stringify(n *yaml.Node) string {
	var raw any
	_ = n.Decode(&raw)
	return fmt.Sprint(raw)
}

func parseDependencies(node *yaml.Node, allGlobal bool) ([]Requirement, error) {
	node = deref(node)
	var reqs []Requirement
	switch node.Kind {
	case yaml.MappingNode:
		for _, kv := range mappingPairs(node) {
			req := Requirement{Project: kv.key, Global: allGlobal}
			switch kv.val.Kind {
			case yaml.ScalarNode:
				if kv.val.Tag != "!!null" {
					req.Constraint = kv.val.Value
				}
			case yaml.MappingNode:
				applyOptions(&req, kv.val)
			default:
				req.Constraint = stringify(kv.val)
			}
			reqs = append(reqs, req)
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			item = deref(item)
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: dependencies list entries must be strings", ErrMalformed)
			}
			reqs = append(reqs, splitSpec(item.Value, allGlobal))
		}
	case yaml.ScalarNode:
		for _, spec := range strings.Fields(node.Value) {
			reqs = append(reqs, splitSpec(spec, allGlobal))
		}
	default:
		return nil, fmt.Errorf("%w: unsupported dependencies value", ErrMalformed)
	}
	return reqs, nil
}

// applyOptions는 {version, global} 형태의 의존성 옵션을 반영한다.
// 해석할 수 없는 global은 무시하고 manifest 단위 값을 유지한다.
func applyOptions(req *Requirement, opts *yaml.Node) {
	for _, kv := range mappingPairs(opts) {
		switch kv.key {
		case "version":
			switch {
			case kv.val.Kind != yaml.ScalarNode:
				req.Constraint = stringify(kv.val)
			case kv.val.Tag != "!!null":
				req.Constraint = kv.val.Value
			}
		case "global":
			var g bool
			if err := kv.val.Decode(&g); err == nil {
				req.Global = g
			}
		}
	}
}

// splitSpec은 "name@constraint"를 분리한다. 선두의 @(scoped name)는 구분자로 보지 않는다.
func splitSpec(spec string, global bool) Requirement {
	spec = strings.TrimSpace(spec)
	if i := strings.LastIndex(spec, "@"); i > 0 {
		return Requirement{Project: spec[:i], Constraint: spec[i+1:], Global: global}
	}
	return Requirement{Project: spec, Global: global}
}

func parseEnv(node *yaml.Node) ([]EnvVar, error) {
	node = deref(node)
	if node.Kind != yaml.MappingNode {
		if node.Tag == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: env must be a mapping", ErrMalformed)
	}
	var env []EnvVar
	for _, kv := range mappingPairs(node) {
		value := kv.val.Value
		if kv.val.Kind != yaml.ScalarNode || kv.val.Tag == "!!null" {
			value = ""
		}
		env = append(env, EnvVar{Key: kv.key, Value: value})
	}
	return env, nil
}
