// Package peres rewrites the resource section of Windows PE images.
// It is pure Go and runs on any build host, so archives destined for
// Windows can be assembled anywhere.
package peres

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/tc-hib/winres"
)

// iconResource is the group icon identifier. Explorer displays the
// first group in resource directory order; named groups sort before
// numeric IDs, so this one always wins.
var iconResource = winres.Name("APPICON")

// EmbedIcon returns a copy of exeData with its application icon group
// replaced by icoData. exeData must be a PE image; icoData must be a
// .ico file.
func EmbedIcon(exeData []byte, icoData []byte, logger hclog.Logger) ([]byte, error) {
	rs, err := winres.LoadFromEXE(bytes.NewReader(exeData))
	if err != nil {
		// A PE without a resource section still gets an icon; a
		// non-PE image fails again at write time below.
		logger.Debug("Template has no loadable resource section", "error", err)
		rs = &winres.ResourceSet{}
	}

	icon, err := winres.LoadICO(bytes.NewReader(icoData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse icon: %w", err)
	}

	if err := rs.SetIcon(iconResource, icon); err != nil {
		return nil, fmt.Errorf("failed to set icon group: %w", err)
	}

	var out bytes.Buffer
	if err := rs.WriteToEXE(&out, bytes.NewReader(exeData)); err != nil {
		return nil, fmt.Errorf("failed to rewrite image: %w", err)
	}

	logger.Debug("Icon embedded", "image_size", out.Len(), "icon_size", len(icoData))
	return out.Bytes(), nil
}
