package catalog

import "strings"

// Classify maps a wholesale service name to a supported platform and a
// category within it. Services for platforms outside the table are
// skipped entirely.
func Classify(name string) (platform, category string, ok bool) {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "instagram"):
		platform = "Instagram"
	case strings.Contains(n, "youtube"):
		platform = "YouTube"
	case strings.Contains(n, "telegram"):
		platform = "Telegram"
	case strings.Contains(n, "twitter"):
		platform = "Twitter"
	case strings.Contains(n, "facebook"):
		platform = "Facebook"
	case strings.Contains(n, "tiktok"):
		platform = "TikTok"
	default:
		return "", "", false
	}

	category = "Uncategorized"
	switch platform {
	case "Instagram":
		switch {
		case strings.Contains(n, "follower"):
			category = "Followers"
		case strings.Contains(n, "like"):
			category = "Likes"
		case strings.Contains(n, "view"):
			category = "Views"
		case strings.Contains(n, "comment"):
			category = "Comments"
		case strings.Contains(n, "story"):
			category = "Story"
		case strings.Contains(n, "share"), strings.Contains(n, "save"):
			category = "Shares/Saves"
		case strings.Contains(n, "channel"):
			category = "Channel"
		}
	case "YouTube":
		switch {
		case strings.Contains(n, "subscribe"):
			category = "Subscribers"
		case strings.Contains(n, "like"),
			strings.Contains(n, "view") && !strings.Contains(n, "short"):
			category = "Video Likes/Views"
		case strings.Contains(n, "short"):
			category = "Shorts Likes/Views"
		case strings.Contains(n, "live"), strings.Contains(n, "stream"):
			category = "Livestream"
		case strings.Contains(n, "watch"), strings.Contains(n, "time"):
			category = "Watch Time"
		}
	case "Telegram":
		switch {
		case strings.Contains(n, "view"):
			category = "Views"
		case strings.Contains(n, "reaction"):
			category = "Reactions"
		case strings.Contains(n, "member"):
			category = "Members"
		}
	case "Twitter":
		switch {
		case strings.Contains(n, "view"):
			category = "Views"
		case strings.Contains(n, "like"):
			category = "Likes"
		}
	case "Facebook":
		switch {
		case strings.Contains(n, "follower"):
			category = "Followers"
		case strings.Contains(n, "like"):
			category = "Likes"
		case strings.Contains(n, "view"):
			category = "Views"
		}
	case "TikTok":
		switch {
		case strings.Contains(n, "follower"):
			category = "Followers"
		case strings.Contains(n, "like"):
			category = "Likes"
		case strings.Contains(n, "save"), strings.Contains(n, "share"):
			category = "Engagement"
		}
	}

	return platform, category, true
}
