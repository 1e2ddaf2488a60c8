package ros

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	Sep       = "/"
	GlobalNS  = "/"
	PrivateNS = "~"
	Remap     = ":="
)

// NameMap maps names to names, or argument keys to raw values.
type NameMap map[string]string

var validName = regexp.MustCompile(`^[~/]?([a-zA-Z]\w*/)*[a-zA-Z]\w*/?$`)

func isValidName(name string) bool {
	if name == "" || name == GlobalNS || name == PrivateNS {
		return true
	}
	return validName.MatchString(name)
}

func isGlobalName(name string) bool {
	return strings.HasPrefix(name, GlobalNS)
}

func isPrivateName(name string) bool {
	return strings.HasPrefix(name, PrivateNS)
}

func splitName(name string) []string {
	var components []string
	for _, word := range strings.Split(name, Sep) {
		if word != "" {
			components = append(components, word)
		}
	}
	return components
}

// canonicalizeName removes repeated and trailing separators.
func canonicalizeName(name string) string {
	if name == "" || name == GlobalNS {
		return name
	}
	joined := strings.Join(splitName(name), Sep)
	if isGlobalName(name) {
		return GlobalNS + joined
	}
	return joined
}

// qualifyNodeName splits a node name into its namespace, which always ends
// with a separator, and its base name.
func qualifyNodeName(nodeName string) (string, string, error) {
	if nodeName == "" {
		return "", "", errors.New("empty node name")
	}
	if isPrivateName(nodeName) {
		return "", "", errors.New("node name should not contain '~'")
	}
	if !isValidName(nodeName) {
		return "", "", errors.Errorf("invalid node name %q", nodeName)
	}
	components := splitName(nodeName)
	last := len(components) - 1
	if last == 0 {
		return GlobalNS, components[0], nil
	}
	return GlobalNS + strings.Join(components[:last], Sep) + Sep, components[last], nil
}

func normalizeNamespace(ns string) string {
	canon := canonicalizeName(GlobalNS + ns)
	if canon == GlobalNS {
		return canon
	}
	return canon + Sep
}

// resolveName resolves name against namespace, or against the node's
// qualified name for private names, then applies mappings.
func resolveName(name string, namespace string, nodeName string, mappings NameMap) string {
	var resolved string
	switch {
	case name == "":
		resolved = namespace
	case isGlobalName(name):
		resolved = canonicalizeName(name)
	case isPrivateName(name):
		resolved = canonicalizeName(nodeName + Sep + name[1:])
	default:
		resolved = canonicalizeName(namespace + Sep + name)
	}
	if remapped, ok := mappings[resolved]; ok {
		return remapped
	}
	return resolved
}

func processArguments(args []string) (NameMap, NameMap, NameMap, []string) {
	mapping := make(NameMap)
	params := make(NameMap)
	specials := make(NameMap)
	rest := make([]string, 0)
	for _, arg := range args {
		components := strings.Split(arg, Remap)
		if len(components) != 2 {
			rest = append(rest, arg)
			continue
		}
		key, value := components[0], components[1]
		switch {
		case strings.HasPrefix(key, "__"):
			specials[key] = value
		case strings.HasPrefix(key, "_"):
			params[key[1:]] = value
		default:
			mapping[key] = value
		}
	}
	return mapping, params, specials, rest
}

type nameResolver struct {
	namespace string
	nodeName  string
	mapping   NameMap
}

func newNameResolver(namespace string, name string, remapping NameMap) *nameResolver {
	n := &nameResolver{
		namespace: normalizeNamespace(namespace),
		mapping:   make(NameMap),
	}
	n.nodeName = n.namespace + name
	for k, v := range remapping {
		key := resolveName(k, n.namespace, n.nodeName, nil)
		n.mapping[key] = resolveName(v, n.namespace, n.nodeName, nil)
	}
	return n
}

func (n *nameResolver) resolve(name string) string {
	return resolveName(name, n.namespace, n.nodeName, nil)
}

func (n *nameResolver) remap(name string) string {
	return resolveName(name, n.namespace, n.nodeName, n.mapping)
}
