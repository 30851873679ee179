package dto

type UserPointsResponse struct {
	UserID         string `json:"user_id"`
	DisplayName    string `json:"display_name"`
	Points         int    `json:"points"`
	IssuesReported int    `json:"issues_reported"`
}

type LeaderboardEntry struct {
	Rank int `json:"rank"`
	UserPointsResponse
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
