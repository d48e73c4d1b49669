// services/referral_tree.go
package services

import (
	"errors"
	"time"

	"kuberfashion-backend/config"
	"kuberfashion-backend/models"

	"gorm.io/gorm"
)

// treeDepthCap bounds the materialized tree so a deep (or corrupted) forest
// cannot blow up the admin response.
const treeDepthCap = 6

// TreeNode is one user in the admin referral-tree view.
type TreeNode struct {
	ID             uint        `json:"id"`
	Masked         string      `json:"masked"`
	Phone          string      `json:"phone"`
	SignupDate     string      `json:"signup_date"`
	Status         string      `json:"status"`
	Rewards        int64       `json:"rewards"`
	TotalReferrals int         `json:"total_referrals"`
	Children       []*TreeNode `json:"children"`
}

// BuildReferralTree materializes the referral forest from the user with the
// given phone, or from the earliest-created user when phone is blank. Returns
// nil when no users exist yet.
//
// Expansion is an explicit worklist with a per-node depth, not recursion:
// depth enforcement stays trivial and memory stays bounded by the cap.
func (s *ReferralService) BuildReferralTree(phone string) (*TreeNode, error) {
	var root models.User
	query := s.DB.Order("id ASC")
	if phone != "" {
		query = s.DB.Where("phone = ?", phone)
	}
	if err := query.First(&root).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Empty database is a valid state; an unknown explicit phone is not.
			if phone == "" {
				return nil, nil
			}
			return nil, err
		}
		return nil, err
	}

	rootNode, err := s.newTreeNode(&root)
	if err != nil {
		return nil, err
	}

	type frame struct {
		userID uint
		node   *TreeNode
		depth  int
	}
	stack := []frame{{root.ID, rootNode, 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth >= treeDepthCap {
			continue // node keeps its counts, children stay empty
		}

		var directs []models.ReferralRelation
		if err := s.DB.Preload("User").
			Where("parent_id = ?", f.userID).
			Order("created_at ASC").
			Find(&directs).Error; err != nil {
			return nil, err
		}

		for _, rel := range directs {
			if rel.User == nil {
				continue
			}
			child, err := s.newTreeNode(rel.User)
			if err != nil {
				return nil, err
			}
			f.node.Children = append(f.node.Children, child)
			stack = append(stack, frame{rel.User.ID, child, f.depth + 1})
		}
	}

	return rootNode, nil
}

func (s *ReferralService) newTreeNode(u *models.User) (*TreeNode, error) {
	rewards, err := s.rewardSnapshot(u)
	if err != nil {
		return nil, err
	}

	var directCount int64
	if err := s.DB.Model(&models.ReferralRelation{}).
		Where("parent_id = ?", u.ID).
		Count(&directCount).Error; err != nil {
		return nil, err
	}

	return &TreeNode{
		ID:             u.ID,
		Masked:         maskPhoneTree(u.Phone),
		Phone:          u.Phone,
		SignupDate:     u.CreatedAt.Format(time.RFC3339),
		Status:         statusOf(u),
		Rewards:        rewards,
		TotalReferrals: int(directCount),
		Children:       []*TreeNode{},
	}, nil
}

func (s *ReferralService) rewardSnapshot(u *models.User) (int64, error) {
	if s.Mode == config.RewardModeCoupons {
		return int64(u.KuberCoupons), nil
	}
	return s.CoinBalanceOf(u.ID)
}

// maskPhoneTree is the tree view's own rule, stricter than the stats one:
// anything up to 10 chars collapses to "****".
func maskPhoneTree(phone string) string {
	if len(phone) <= 10 {
		return "****"
	}
	return "******" + phone[len(phone)-4:]
}
