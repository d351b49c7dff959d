package model

import "time"

// Followship 关注关系（Follower 关注 Following）
type Followship struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FollowerID  string    `gorm:"type:varchar(36);not null;index:idx_followship_follower;uniqueIndex:ux_followship_pair;check:chk_followship_not_self,follower_id <> following_id" json:"followerId"`
	FollowingID string    `gorm:"type:varchar(36);not null;index:idx_followship_following;uniqueIndex:ux_followship_pair" json:"followingId"`
	// 复合唯一键，避免重复关注
	// ux_followship_pair = (follower_id, following_id)
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (Followship) TableName() string { return "followships" }
