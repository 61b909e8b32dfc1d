package compose

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/regclient/regclient"
	"github.com/regclient/regclient/types/ref"
)

// imagePattern matches "image: nginx:latest" lines with optional trailing comments
var imagePattern = regexp.MustCompile(`^(\s*image:\s*)([^\s#]+)(.*)$`)

// DigestResolver turns an image reference into a pinned "name@algo:digest" reference
type DigestResolver interface {
	Resolve(ctx context.Context, image string, config EditorConfig) (string, error)
}

// RegistryResolver resolves digests against the image registry
type RegistryResolver struct {
	rc *regclient.RegClient
}

// NewRegistryResolver wraps a regclient client
func NewRegistryResolver(rc *regclient.RegClient) *RegistryResolver {
	return &RegistryResolver{rc: rc}
}

// Resolve resolves an image tag to its immutable digest using regclient
func (r *RegistryResolver) Resolve(ctx context.Context, image string, config EditorConfig) (string, error) {
	parsed, err := ref.New(image)
	if err != nil {
		return "", fmt.Errorf("parse ref %q: %w", image, err)
	}

	m, err := r.rc.ManifestHead(ctx, parsed)
	if err != nil {
		return "", fmt.Errorf("fetch manifest for %q: %w", image, err)
	}
	digest := m.GetDescriptor().Digest

	imageRef := parsed.CommonName()
	if !config.ExpandRegistry {
		imageRef = image
		if idx := strings.LastIndex(imageRef, ":"); idx > strings.LastIndex(imageRef, "/") {
			imageRef = imageRef[:idx]
		}
	}
	return fmt.Sprintf("%s@%s", imageRef, digest.String()), nil
}

// hasDigest checks if an image reference already contains a digest with the specified algorithm
func hasDigest(image, algorithm string) bool {
	return strings.Contains(image, "@"+algorithm+":")
}

// PinImages rewrites every unpinned image line to a digest reference.
// Lookup failures are reported and the line is kept as is.
func PinImages(ctx context.Context, resolver DigestResolver, data []byte, config EditorConfig) ([]byte, bool, error) {
	if config.Algorithm == "" {
		config.Algorithm = "sha256"
	}

	var out strings.Builder
	changed := false
	service := ""
	var pinnedImages, serviceNames []string

	for _, line := range Scan(string(data)) {
		if line.Indent == 2 && strings.HasSuffix(line.Content, ":") {
			service = strings.TrimSuffix(line.Content, ":")
		}

		match := imagePattern.FindStringSubmatch(strings.TrimRight(line.Raw, "\r\n"))
		if match == nil {
			out.WriteString(line.Raw)
			continue
		}
		prefix, imageRef, suffix := match[1], match[2], match[3]

		if hasDigest(imageRef, config.Algorithm) {
			pinnedImages = append(pinnedImages, imageRef)
			serviceNames = append(serviceNames, service)
			out.WriteString(line.Raw)
			continue
		}

		pinned, err := resolver.Resolve(ctx, imageRef, config)
		if err != nil {
			LogWarning("%v", err)
			out.WriteString(line.Raw)
			continue
		}
		if !config.Quiet {
			FormatDockerPin(service, imageRef, pinned)
		}
		out.WriteString(prefix + pinned + suffix + line.Raw[len(strings.TrimRight(line.Raw, "\r\n")):])
		changed = true
	}

	if !changed && len(pinnedImages) > 0 && !config.Quiet {
		FormatAlreadyPinnedMessage(pinnedImages, serviceNames)
	}
	return []byte(out.String()), changed, nil
}

// ProcessPin pins the images of the compose file at path
func ProcessPin(ctx context.Context, resolver DigestResolver, path string, config EditorConfig) (bool, error) {
	return ProcessFile(path, config, func(data []byte, config EditorConfig) ([]byte, bool, error) {
		if err := Validate(data); err != nil {
			return nil, false, err
		}
		return PinImages(ctx, resolver, data, config)
	})
}
