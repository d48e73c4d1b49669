package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBuildReferralTree(t *testing.T) {
	t.Run("Success - empty database yields no tree", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCoinService(db)

		tree, err := svc.BuildReferralTree("")
		require.NoError(t, err)
		assert.Nil(t, tree)
	})

	t.Run("Failure - unknown phone is not found", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCoinService(db)
		createTestUser(t, db, "7000000001")

		tree, err := svc.BuildReferralTree("0000000000")
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Nil(t, tree)
	})

	t.Run("Success - blank phone roots at the earliest user", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCoinService(db)

		first := createTestUser(t, db, "7000000001")
		createTestUser(t, db, "7000000002")

		tree, err := svc.BuildReferralTree("")
		require.NoError(t, err)
		require.NotNil(t, tree)
		assert.Equal(t, first.ID, tree.ID)
	})

	t.Run("Success - children and counts", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCoinService(db)

		root := createTestUser(t, db, "7100000001")
		kid1 := createTestUser(t, db, "7100000002")
		kid2 := createTestUser(t, db, "7100000003")
		linkEdge(t, db, kid1.ID, root.ID)
		linkEdge(t, db, kid2.ID, root.ID)
		grandkid := createTestUser(t, db, "7100000004")
		linkEdge(t, db, grandkid.ID, kid1.ID)

		tree, err := svc.BuildReferralTree(root.Phone)
		require.NoError(t, err)
		require.NotNil(t, tree)

		assert.Equal(t, root.ID, tree.ID)
		assert.Equal(t, 2, tree.TotalReferrals)
		require.Len(t, tree.Children, 2)

		var kid1Node *TreeNode
		for _, child := range tree.Children {
			if child.ID == kid1.ID {
				kid1Node = child
			}
		}
		require.NotNil(t, kid1Node)
		assert.Equal(t, 1, kid1Node.TotalReferrals)
		require.Len(t, kid1Node.Children, 1)
		assert.Equal(t, grandkid.ID, kid1Node.Children[0].ID)
	})

	t.Run("Success - depth is capped", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCoinService(db)

		// Chain deeper than the cap.
		users := make([]uint, 9)
		for i := range users {
			u := createTestUser(t, db, fmt.Sprintf("72000000%02d", i))
			users[i] = u.ID
			if i > 0 {
				linkEdge(t, db, u.ID, users[i-1])
			}
		}

		tree, err := svc.BuildReferralTree("7200000000")
		require.NoError(t, err)
		require.NotNil(t, tree)

		depth := 0
		node := tree
		for len(node.Children) > 0 {
			node = node.Children[0]
			depth++
		}
		assert.Equal(t, treeDepthCap, depth)
		// The cut-off node still reports its direct count.
		assert.Equal(t, 1, node.TotalReferrals)
	})

	t.Run("Success - rewards snapshot uses the coin balance", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newCoinService(db)

		root := createTestUser(t, db, "7300000001")
		kid := createTestUser(t, db, "7300000002")
		require.NoError(t, svc.HandlePostRegistration(kid, root.Phone))

		tree, err := svc.BuildReferralTree(root.Phone)
		require.NoError(t, err)
		require.NotNil(t, tree)
		assert.Equal(t, int64(15), tree.Rewards)
		require.Len(t, tree.Children, 1)
		assert.Equal(t, int64(50), tree.Children[0].Rewards)
	})
}

func TestMaskPhoneTree(t *testing.T) {
	assert.Equal(t, "****", maskPhoneTree("9876543210"))
	assert.Equal(t, "****", maskPhoneTree("12345"))
	assert.Equal(t, "****", maskPhoneTree(""))
	assert.Equal(t, "******3210", maskPhoneTree("+919876543210"))
}
