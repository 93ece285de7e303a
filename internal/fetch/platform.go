package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known applicant-tracking job board.
type Platform string

const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformWorkday         Platform = "workday"
	PlatformAshby           Platform = "ashby"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformUnknown         Platform = "unknown"
)

type platformProfile struct {
	hosts   []string
	content []string
	noise   []string
	// spa boards render the posting client-side; plain HTTP yields a shell.
	spa bool
}

var platforms = map[Platform]platformProfile{
	PlatformGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", ".job-description__content", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", ".voluntary-self-id", ".voluntary-self-id-wrapper", "#usa_self_id_section", ".post-apply"},
	},
	PlatformLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
		spa:     true,
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='_descriptionText']", "[class*='_description']", "main"},
		noise:   []string{"[class*='_applicationForm']"},
		spa:     true,
	},
	PlatformSmartRecruiters: {
		hosts:   []string{"smartrecruiters.com"},
		content: []string{".job-sections", "[itemprop='description']", "main"},
		noise:   []string{".job-apply", ".social-share"},
	},
}

// commonNoise is removed on every board: application forms, EEO text,
// share widgets and consent banners.
var commonNoise = []string{
	"form", "#application-form", ".application-form", ".apply-button-container", "[data-testid='application-form']",
	".voluntary-disclosure", ".eeo-statement", ".eeo-section", "[data-testid='eeo']", ".legal-disclosure", ".self-identification",
	".social-share", ".share-buttons", ".social-links",
	".cookie-banner", ".cookie-consent", ".gdpr-notice",
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for platform, profile := range platforms {
		for _, h := range profile.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for platform, falling
// back to generic job-posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	if profile, ok := platforms[platform]; ok {
		return profile.content
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns the noise selectors to strip for platform.
func PlatformNoiseSelectors(platform Platform) []string {
	out := append([]string(nil), commonNoise...)
	if profile, ok := platforms[platform]; ok {
		out = append(out, profile.noise...)
	}
	return out
}

// RendersClientSide reports whether platform is known to need a browser.
func RendersClientSide(platform Platform) bool {
	return platforms[platform].spa
}
