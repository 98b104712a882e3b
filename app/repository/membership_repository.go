package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxListLimit = 500

// Columns the member listing may sort by. Anything else falls back to
// joined_at.
var membershipOrderColumns = map[string]string{
	"joined_at":  "joined_at",
	"updated_at": "updated_at",
	"left_at":    "left_at",
}

// membershipRepository implements the MembershipRepository interface
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository instance
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Ensure fetches the membership for (communityID, userID), creating it with
// the supplied defaults when absent. Safe under concurrent calls for the same
// key: the insert is ON CONFLICT DO NOTHING followed by a re-read.
func (r *membershipRepository) Ensure(communityID, userID uint, defaults MembershipDefaults) (*models.CommunityMembership, bool, error) {
	var existing models.CommunityMembership
	err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	role := defaults.Role
	if role == "" {
		role = models.MemberRoleMember
	}
	status := defaults.Status
	if status == "" {
		status = models.MemberStatusActive
	}
	joined := defaults.JoinedAt
	if joined.IsZero() {
		joined = time.Now()
	}
	m := models.CommunityMembership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		Status:      status,
		JoinedAt:    joined,
		Metadata:    defaults.Metadata,
	}
	if status != models.MemberStatusActive {
		m.LeftAt = &joined
	}

	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "community_id"},
			{Name: "user_id"},
		},
		DoNothing: true,
	}).Create(&m)
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	created := tx.RowsAffected > 0

	var stored models.CommunityMembership
	if err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&stored).Error; err != nil {
		return nil, false, err
	}
	return &stored, created, nil
}

func (r *membershipRepository) Get(communityID, userID uint) (*models.CommunityMembership, error) {
	var m models.CommunityMembership
	err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "membership not found", err)
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) UpdateRole(m *models.CommunityMembership, role models.MemberRole) error {
	if err := r.db.Model(m).Update("role", role).Error; err != nil {
		return err
	}
	m.Role = role
	return nil
}

// UpdateStatus transitions the membership status and maintains the LeftAt
// invariant: LeftAt is non-null exactly when the status is not active.
func (r *membershipRepository) UpdateStatus(m *models.CommunityMembership, status models.MemberStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == models.MemberStatusActive {
		updates["left_at"] = nil
	} else {
		now := time.Now()
		updates["left_at"] = &now
	}
	if err := r.db.Model(m).Updates(updates).Error; err != nil {
		return err
	}
	m.Status = status
	if status == models.MemberStatusActive {
		m.LeftAt = nil
	} else if left, ok := updates["left_at"].(*time.Time); ok {
		m.LeftAt = left
	}
	return nil
}

func (r *membershipRepository) UpdateMetadata(m *models.CommunityMembership, metadata models.MembershipMetadata) error {
	if err := r.db.Model(m).Update("metadata", metadata).Error; err != nil {
		return err
	}
	m.Metadata = metadata
	return nil
}

// List applies the full filter/sort/pagination contract. The SQL layer
// handles the enum and date filters plus the stable ordering; the search
// filter runs over the hydrated rows because it spans metadata values and the
// joined user's email, display name and raw id.
func (r *membershipRepository) List(communityID uint, opts MembershipListOptions) (*MembershipPage, error) {
	statuses, err := normalizeStatusFilter(opts.Status)
	if err != nil {
		return nil, err
	}
	roles, err := normalizeRoleFilter(opts.Role)
	if err != nil {
		return nil, err
	}

	q := r.db.Preload("User").Where("community_id = ?", communityID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	if opts.JoinedAfter != nil {
		q = q.Where("joined_at >= ?", *opts.JoinedAfter)
	}
	if opts.JoinedBefore != nil {
		q = q.Where("joined_at <= ?", *opts.JoinedBefore)
	}

	col, ok := membershipOrderColumns[strings.ToLower(strings.TrimSpace(opts.OrderBy))]
	if !ok {
		col = "joined_at"
	}
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(opts.Order), "desc") {
		dir = "DESC"
	}
	q = q.Order(fmt.Sprintf("%s %s, id %s", col, dir, dir))

	var rows []models.CommunityMembership
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	if search := strings.ToLower(strings.TrimSpace(opts.Search)); search != "" {
		filtered := rows[:0]
		for i := range rows {
			if membershipMatchesSearch(&rows[i], search) {
				filtered = append(filtered, rows[i])
			}
		}
		rows = filtered
	}

	total := int64(len(rows))
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	limit := opts.Limit
	if limit != 0 {
		if limit < 1 {
			limit = 1
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
	}

	if offset >= len(rows) {
		rows = nil
	} else {
		rows = rows[offset:]
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return &MembershipPage{Members: rows, Total: total, Limit: limit, Offset: offset}, nil
}

func normalizeStatusFilter(raw []string) ([]models.MemberStatus, error) {
	out := make([]models.MemberStatus, 0, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		status, err := models.ParseMemberStatus(v)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, nil
}

func normalizeRoleFilter(raw []string) ([]models.MemberRole, error) {
	out := make([]models.MemberRole, 0, len(raw))
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		role, err := models.ParseMemberRole(v)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, nil
}

// membershipMatchesSearch checks the case-insensitive substring search
// against metadata values, the joined user's email and display name, and the
// raw numeric user id.
func membershipMatchesSearch(m *models.CommunityMembership, search string) bool {
	for _, v := range m.Metadata.Values() {
		if strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	if m.User != nil {
		if strings.Contains(strings.ToLower(m.User.Email), search) {
			return true
		}
		if strings.Contains(strings.ToLower(m.User.DisplayName()), search) {
			return true
		}
	}
	return strings.Contains(strconv.FormatUint(uint64(m.UserID), 10), search)
}
