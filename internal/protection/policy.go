// Package protection applies the project's branch protection policy through
// the GitHub REST API.
package protection

// DefaultBranches are the long-lived branches that receive the policy.
var DefaultBranches = []string{"main", "dev"}

// Policy is the request body of the update branch protection endpoint.
type Policy struct {
	RequiredStatusChecks           *StatusChecks       `json:"required_status_checks"`
	EnforceAdmins                  bool                `json:"enforce_admins"`
	RequiredPullRequestReviews     *PullRequestReviews `json:"required_pull_request_reviews"`
	Restrictions                   *Restrictions       `json:"restrictions"`
	AllowForcePushes               bool                `json:"allow_force_pushes"`
	AllowDeletions                 bool                `json:"allow_deletions"`
	RequiredConversationResolution bool                `json:"required_conversation_resolution"`
	LockBranch                     bool                `json:"lock_branch"`
}

type StatusChecks struct {
	Strict bool `json:"strict"`
	// Contexts are check run names as shown in the branch protection UI,
	// "<workflow name> / <job id>" for GitHub Actions.
	Contexts []string `json:"contexts"`
}

type PullRequestReviews struct {
	DismissStaleReviews          bool `json:"dismiss_stale_reviews"`
	RequiredApprovingReviewCount int  `json:"required_approving_review_count"`
	RequireCodeOwnerReviews      bool `json:"require_code_owner_reviews"`
}

type Restrictions struct {
	Users []string `json:"users"`
	Teams []string `json:"teams"`
}

// DefaultPolicy requires the template's test, lint and PR title checks plus
// one code owner approval. Admins are not bound by it.
func DefaultPolicy() Policy {
	return Policy{
		RequiredStatusChecks: &StatusChecks{
			Strict: true,
			Contexts: []string{
				"Testing / test",
				"Linting / lint",
				"PR Title Check / check-title",
			},
		},
		EnforceAdmins: false,
		RequiredPullRequestReviews: &PullRequestReviews{
			DismissStaleReviews:          true,
			RequiredApprovingReviewCount: 1,
			RequireCodeOwnerReviews:      true,
		},
		Restrictions:                   nil,
		AllowForcePushes:               false,
		AllowDeletions:                 false,
		RequiredConversationResolution: true,
		LockBranch:                     false,
	}
}
