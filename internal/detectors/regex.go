package detectors

import (
	"regexp"

	"github.com/keyward/keyward/internal/types"
)

// regexPlugin reports every match of its patterns. When a pattern has a
// group named "secret", only that group is reported.
type regexPlugin struct {
	name       string
	secretType string
	patterns   []*regexp.Regexp
}

func (p regexPlugin) Name() string       { return p.name }
func (p regexPlugin) SecretType() string { return p.secretType }

func (p regexPlugin) Analyze(line string) []string {
	var out []string
	for _, re := range p.patterns {
		idx := re.SubexpIndex("secret")
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			s := m[0]
			if idx >= 0 {
				s = m[idx]
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func (p regexPlugin) FormatResult(f types.Finding) string {
	if f.Secret == "" {
		return "True"
	}
	return "True  (" + maskValue(f.Secret) + ")"
}

func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func awsKeys() Plugin {
	return regexPlugin{
		name:       "AWSKeyDetector",
		secretType: "AWS Access Key",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:A3T[A-Z0-9]|ABIA|ACCA|AKIA|ASIA)[0-9A-Z]{16}`),
			regexp.MustCompile(`(?i)(?:aws_secret_access_key|aws_secret_key|secretKey)["'\s:=]+(?P<secret>[A-Za-z0-9/+=]{40})`),
		},
	}
}

func basicAuth() Plugin {
	return regexPlugin{
		name:       "BasicAuthDetector",
		secretType: "Basic Auth Credentials",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`://[^{}\s]+:(?P<secret>[^{}\s:/?#\[\]@]+)@`),
		},
	}
}

func discordBotToken() Plugin {
	return regexPlugin{
		name:       "DiscordBotTokenDetector",
		secretType: "Discord Bot Token",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b[MNO][A-Za-z\d_-]{23,25}\.[\w-]{6}\.[\w-]{27,38}\b`),
		},
	}
}

// PAT formats evolve; cover ghp_, gho_, ghu_, ghs_, ghr_
func gitHubToken() Plugin {
	return regexPlugin{
		name:       "GitHubTokenDetector",
		secretType: "GitHub Token",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bg(?:hp|ho|hu|hs|hr)_[A-Za-z0-9]{36}\b`),
		},
	}
}

func gitLabToken() Plugin {
	return regexPlugin{
		name:       "GitLabTokenDetector",
		secretType: "GitLab Token",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bgl(?:pat|dt|rt|ptt)-[A-Za-z0-9_-]{20}\b`),
		},
	}
}

func npmToken() Plugin {
	return regexPlugin{
		name:       "NpmDetector",
		secretType: "NPM tokens",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bnpm_[A-Za-z0-9]{36}\b`),
			regexp.MustCompile(`//.+/:_authToken=\s*(?P<secret>[A-Fa-f0-9-]{36})`),
		},
	}
}

func openAIKey() Plugin {
	return regexPlugin{
		name:       "OpenAIDetector",
		secretType: "OpenAI Token",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bsk-(?:proj-)?[A-Za-z0-9_-]{32,}\b`),
		},
	}
}

func privateKey() Plugin {
	return regexPlugin{
		name:       "PrivateKeyDetector",
		secretType: "Private Key",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )*PRIVATE KEY(?: BLOCK)?-----`),
			regexp.MustCompile(`PuTTY-User-Key-File-2`),
		},
	}
}

func sendGrid() Plugin {
	return regexPlugin{
		name:       "SendGridDetector",
		secretType: "SendGrid API Key",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bSG\.[A-Za-z0-9_-]{16,32}\.[A-Za-z0-9_-]{32,64}\b`),
		},
	}
}

func slackToken() Plugin {
	return regexPlugin{
		name:       "SlackDetector",
		secretType: "Slack Token",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`xox[abprs]-[A-Za-z0-9-]{10,48}`),
			regexp.MustCompile(`https://hooks\.slack\.com/services/T[A-Za-z0-9_]+/B[A-Za-z0-9_]+/[A-Za-z0-9_]+`),
		},
	}
}

func stripeKey() Plugin {
	return regexPlugin{
		name:       "StripeDetector",
		secretType: "Stripe Access Key",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:r|s)k_live_[0-9a-zA-Z]{24,}`),
		},
	}
}

func twilioKeys() Plugin {
	return regexPlugin{
		name:       "TwilioKeyDetector",
		secretType: "Twilio API Key",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bAC[0-9a-fA-F]{32}\b`),
			regexp.MustCompile(`\bSK[0-9a-fA-F]{32}\b`),
		},
	}
}
