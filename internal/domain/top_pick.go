package domain

// TopPick is one leaderboard row
type TopPick struct {
	Rank   int    `json:"rank"`
	PostID uint64 `json:"post_id"`
	Title  string `json:"title"`
	Sport  string `json:"sport"`
	Odds   string `json:"odds"`
	Likes  int64  `json:"likes"`
}

// TopPicksResult carries the picks and the number of posts they were ranked from
type TopPicksResult struct {
	Picks      []*TopPick `json:"picks"`
	TotalPosts int        `json:"total_posts"`
	WindowDays int        `json:"window_days"`
}
