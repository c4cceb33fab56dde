// Package manifest rewrites the logo references inside an app package
// manifest so they point at the generated asset set.
package manifest

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/hashicorp/go-hclog"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// Update points the manifest at path into assetDirPrefix. References use
// unqualified base names (Square150x150Logo.png, not scale-qualified ones);
// the package resource loader selects the qualified variant at runtime.
// Re-running with the same inputs leaves the file unchanged.
func Update(path, assetDirPrefix string, logger hclog.Logger) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return fmt.Errorf("%w: reading %s: %v", apperrors.ErrIOFailure, path, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "Package" {
		return fmt.Errorf("%w: %s has no Package root", apperrors.ErrIOFailure, path)
	}

	prefix := strings.TrimRight(assetDirPrefix, `/\`)
	ref := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + `\` + name
	}

	props := childByTag(root, "Properties")
	if props == nil {
		props = root.CreateElement(prefixed(root.Space, "Properties"))
	}
	logo := childByTag(props, "Logo")
	if logo == nil {
		logo = props.CreateElement(prefixed(props.Space, "Logo"))
	}
	logo.SetText(ref("NewStoreLogo.png"))

	patched := 0
	if apps := childByTag(root, "Applications"); apps != nil {
		for _, app := range apps.ChildElements() {
			if app.Tag != "Application" {
				continue
			}
			visual := childByTag(app, "VisualElements")
			if visual == nil {
				continue
			}

			visual.CreateAttr("Square150x150Logo", ref("Square150x150Logo.png"))
			visual.CreateAttr("Square44x44Logo", ref("Square44x44Logo.png"))

			tile := childByTag(visual, "DefaultTile")
			if tile == nil {
				tile = visual.CreateElement(prefixed(visual.Space, "DefaultTile"))
			}
			tile.CreateAttr("Wide310x150Logo", ref("Wide310x150Logo.png"))
			tile.CreateAttr("Square310x310Logo", ref("Square310x310Logo.png"))
			tile.CreateAttr("Square71x71Logo", ref("Square71x71Logo.png"))

			splash := childByTag(visual, "SplashScreen")
			if splash == nil {
				splash = visual.CreateElement(prefixed(visual.Space, "SplashScreen"))
			}
			splash.CreateAttr("Image", ref("SplashScreen.png"))

			patched++
		}
	}

	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("%w: writing %s: %v", apperrors.ErrIOFailure, path, err)
	}

	logger.Info("✅ Manifest updated",
		"path", path,
		"asset_prefix", prefix,
		"applications", patched,
	)

	return nil
}

// childByTag finds the first child with the given local tag under any
// namespace prefix. Manifests vary in how they prefix the uap namespace.
func childByTag(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// prefixed rebuilds a full tag using the namespace prefix of a sibling, so
// created elements follow the document's own prefixing.
func prefixed(space, tag string) string {
	if space == "" {
		return tag
	}
	return space + ":" + tag
}
