package activity

import (
	"hash/fnv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Service struct {
	repo   ActivityRepo
	users  UserDirectory
	events EventCatalog
	pub    Publisher
	cache  Cache
	clock  Clock

	ttlDetails time.Duration
	ttlList    time.Duration
	ttlStats   time.Duration
}

func New(
	repo ActivityRepo,
	users UserDirectory,
	events EventCatalog,
	clock Clock,
	pub Publisher,
	cache Cache,
	ttlDetails, ttlList, ttlStats time.Duration,
) *Service {
	if ttlDetails == 0 {
		ttlDetails = 5 * time.Minute
	}
	if ttlList == 0 {
		ttlList = 15 * time.Second
	}
	if ttlStats == 0 {
		ttlStats = 30 * time.Second
	}

	return &Service{
		repo:       repo,
		users:      users,
		events:     events,
		pub:        pub,
		cache:      cache,
		clock:      clock,
		ttlDetails: ttlDetails,
		ttlList:    ttlList,
		ttlStats:   ttlStats,
	}
}

// avatarPalette matches the dashboard's fixed set; DeriveAvatarColor picks a
// stable entry when the directory has no color for the user.
var avatarPalette = []string{
	"#2563eb", "#7c3aed", "#db2777", "#ea580c", "#16a34a", "#0891b2",
}

func DeriveAvatarColor(userID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return avatarPalette[int(h.Sum32())%len(avatarPalette)]
}

// DisplayName joins first/last, falling back to the email local part.
func DisplayName(p *UserProfile) string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name != "" {
		return name
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return p.UserID
}

// Initials takes the first letter of up to two name words.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		n++
		if n == 2 {
			break
		}
	}
	return b.String()
}
