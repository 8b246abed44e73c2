package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	PostKeyPrefix         = "post:%d"
	CommunityKeyPrefix    = "community:%d"
	CommunityListKey      = "communities:public"
	PostCommentsPrefix    = "post:%d:comments"
	UserCommunitiesPrefix = "user:%d:communities"
)

const (
	UserTTL          = 5 * time.Minute
	CommunityTTL     = 10 * time.Minute
	CommunityListTTL = 2 * time.Minute
	PostTTL          = 30 * time.Minute
	CommentsTTL      = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommunityKey(communityID uint) string {
	return fmt.Sprintf(CommunityKeyPrefix, communityID)
}

func PostCommentsKey(postID uint) string {
	return fmt.Sprintf(PostCommentsPrefix, postID)
}

func UserCommunitiesKey(userID uint) string {
	return fmt.Sprintf(UserCommunitiesPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, UserCommunitiesKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostCommentsKey(postID))
}

func InvalidateCommunity(ctx context.Context, communityID uint) {
	Invalidate(ctx, CommunityKey(communityID))
	Invalidate(ctx, CommunityListKey)
}
