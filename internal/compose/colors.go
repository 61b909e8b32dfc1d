package compose

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Action describes what happened to a block
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// FormatBlockChange prints a feature block change with coloring
func FormatBlockChange(action Action, name, path string) {
	icon, verb := "➕", color.GreenString(string(action))
	if action == ActionRemoved {
		icon, verb = "➖", color.RedString(string(action))
	}
	fmt.Printf("%s [%s] %s %s in %s\n",
		icon,
		color.BlueString("COMPOSE"),
		color.CyanString(name),
		verb,
		color.WhiteString(path),
	)
}

// FormatDockerPin formats a Docker image pin message with granular coloring
func FormatDockerPin(serviceName, originalImage, pinnedImage string) {
	imageName, imageTag := parseImageNameAndTag(originalImage)
	pinnedName, pinnedDigest := parseImageNameAndDigest(pinnedImage)

	if serviceName != "" {
		fmt.Printf("📌 [%s] %s: %s:%s → %s@%s\n",
			color.BlueString("COMPOSE"),
			color.CyanString(serviceName),
			color.WhiteString(imageName),
			color.GreenString(imageTag),
			color.WhiteString(pinnedName),
			color.GreenString(pinnedDigest),
		)
		return
	}
	fmt.Printf("📌 [%s] %s:%s → %s@%s\n",
		color.BlueString("COMPOSE"),
		color.WhiteString(imageName),
		color.GreenString(imageTag),
		color.WhiteString(pinnedName),
		color.GreenString(pinnedDigest),
	)
}

// parseImageNameAndTag splits an image reference into name and tag
func parseImageNameAndTag(image string) (name, tag string) {
	if at := strings.Index(image, "@"); at != -1 {
		image = image[:at]
	}
	lastColon := strings.LastIndex(image, ":")
	// a colon before the last slash belongs to a registry port
	if lastColon == -1 || lastColon < strings.LastIndex(image, "/") {
		return image, "latest"
	}
	return image[:lastColon], image[lastColon+1:]
}

// parseImageNameAndDigest splits a pinned image reference into name and digest
func parseImageNameAndDigest(image string) (name, digest string) {
	atIndex := strings.LastIndex(image, "@")
	if atIndex == -1 {
		return image, ""
	}
	return image[:atIndex], image[atIndex+1:]
}

// FormatAlreadyPinnedMessage lists images that already carry a digest
func FormatAlreadyPinnedMessage(pinnedImages, serviceNames []string) {
	if len(pinnedImages) == 0 {
		fmt.Printf("ℹ️  [%s] No image references found\n", color.BlueString("COMPOSE"))
		return
	}

	imageWord, verbForm := "image", "is"
	if len(pinnedImages) > 1 {
		imageWord, verbForm = "images", "are"
	}
	fmt.Printf("ℹ️  [%s] %d %s %s already pinned:\n",
		color.BlueString("COMPOSE"),
		len(pinnedImages),
		imageWord,
		verbForm,
	)

	for i, image := range pinnedImages {
		imageName, imageDigest := parseImageNameAndDigest(image)
		if i < len(serviceNames) && serviceNames[i] != "" {
			fmt.Printf("   • %s: %s%s%s\n",
				color.CyanString(serviceNames[i]),
				color.WhiteString(imageName),
				color.BlueString("@"),
				color.GreenString(imageDigest),
			)
			continue
		}
		fmt.Printf("   • %s%s%s\n",
			color.WhiteString(imageName),
			color.BlueString("@"),
			color.GreenString(imageDigest),
		)
	}
}
