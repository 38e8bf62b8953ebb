package webpage

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Opener opens Confluence pages in the system web browser
type Opener struct {
	siteURL string
}

// NewOpener creates an opener for the wiki at siteURL (e.g. https://acme.atlassian.net/wiki)
func NewOpener(siteURL string) *Opener {
	return &Opener{siteURL: strings.TrimRight(siteURL, "/")}
}

// OpenPage opens the page with the given ID
func (o *Opener) OpenPage(pageID string) error {
	u, err := o.BuildURL(pageID)
	if err != nil {
		return err
	}
	return openURL(u)
}

// BuildURL constructs the view URL of a page
func (o *Opener) BuildURL(pageID string) (string, error) {
	if o.siteURL == "" {
		return "", fmt.Errorf("no site URL configured: set CONFLUENCE_DOMAIN")
	}
	if pageID == "" {
		return "", fmt.Errorf("page ID is required")
	}
	return fmt.Sprintf("%s/pages/viewpage.action?pageId=%s", o.siteURL, url.QueryEscape(pageID)), nil
}

func openURL(u string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "linux":
		cmd = exec.Command("xdg-open", u)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", u)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return cmd.Run()
}
