package youtubeapi

import (
	"context"
	"regexp"
	"strings"

	"google.golang.org/api/youtube/v3"

	"github.com/youtubingest/ingest/internal/cache"
	ingesterrors "github.com/youtubingest/ingest/pkg/ingesterrors"
)

// ResolveHint narrows the channel resolution probe order using whatever
// the engine's classifier already learned about the input's shape (spec
// §4.5 stage 1 feeds §4.3's "Channel resolution algorithm").
type ResolveHint int

const (
	HintUnknown ResolveHint = iota
	HintDirectID
	HintHandle
	HintCustom
	HintUser
)

var directChannelIDPattern = regexp.MustCompile(`^UC[0-9A-Za-z_-]{22}$`)

// LooksLikeDirectChannelID reports whether raw already is a channel ID.
func LooksLikeDirectChannelID(raw string) bool {
	return directChannelIDPattern.MatchString(raw)
}

// ResolveChannel implements spec §4.3's channel resolution algorithm: try
// the cheapest, most specific probe implied by hint first, falling
// through to search.list only as a last resort. The first positive probe
// wins; a definitive not-found is cached so repeat lookups of the same
// input fail fast without spending quota.
func (c *Client) ResolveChannel(ctx context.Context, tracker *QuotaTracker, raw string, hint ResolveHint) (ChannelInfo, error) {
	key := "resolve:" + raw
	if info, ok := cacheGetAsInfo(c.channelResolution, key); ok {
		return info, nil
	}
	if _, ok := cacheGetAsNotFound(c.channelResolution, key); ok {
		return ChannelInfo{}, ingesterrors.NewResourceNotFound("channel not found", map[string]any{"input": raw})
	}

	info, err := c.probeChannel(ctx, tracker, raw, hint)
	if err != nil {
		if ingesterrors.Is(err, ingesterrors.CodeResourceNotFound) {
			c.channelResolution.Put(key, notFoundSentinel{Raw: raw}, c.cacheTTLs.ChannelResolution)
		}
		return ChannelInfo{}, err
	}

	c.channelResolution.Put(key, info, c.cacheTTLs.ChannelResolution)
	return info, nil
}

func (c *Client) probeChannel(ctx context.Context, tracker *QuotaTracker, raw string, hint ResolveHint) (ChannelInfo, error) {
	if hint == HintDirectID || LooksLikeDirectChannelID(raw) {
		return c.channelByID(ctx, tracker, raw)
	}

	if hint == HintUser {
		if info, err := c.channelByUsername(ctx, tracker, raw); err == nil {
			return info, nil
		}
	}

	if hint == HintHandle || hint == HintUnknown || hint == HintCustom {
		if strings.HasPrefix(raw, "@") || !strings.Contains(raw, "/") {
			if info, err := c.channelByHandle(ctx, tracker, normalizeHandle(raw)); err == nil {
				return info, nil
			}
		}
	}

	return c.channelBySearch(ctx, tracker, raw)
}

func normalizeHandle(raw string) string {
	return strings.TrimPrefix(raw, "@")
}

func (c *Client) channelByID(ctx context.Context, tracker *QuotaTracker, id string) (ChannelInfo, error) {
	call := c.svc.Channels.List([]string{"snippet", "contentDetails"}).Id(id).Context(ctx)
	resp, err := c.doChannelsList(ctx, tracker, call)
	if err != nil {
		return ChannelInfo{}, err
	}
	return firstChannel(resp)
}

func (c *Client) channelByHandle(ctx context.Context, tracker *QuotaTracker, handle string) (ChannelInfo, error) {
	call := c.svc.Channels.List([]string{"snippet", "contentDetails"}).ForHandle(handle).Context(ctx)
	resp, err := c.doChannelsList(ctx, tracker, call)
	if err != nil {
		return ChannelInfo{}, err
	}
	return firstChannel(resp)
}

func (c *Client) channelByUsername(ctx context.Context, tracker *QuotaTracker, username string) (ChannelInfo, error) {
	username = strings.TrimPrefix(username, "/user/")
	call := c.svc.Channels.List([]string{"snippet", "contentDetails"}).ForUsername(username).Context(ctx)
	resp, err := c.doChannelsList(ctx, tracker, call)
	if err != nil {
		return ChannelInfo{}, err
	}
	return firstChannel(resp)
}

func (c *Client) channelBySearch(ctx context.Context, tracker *QuotaTracker, query string) (ChannelInfo, error) {
	call := c.svc.Search.List([]string{"snippet"}).Type("channel").Q(query).MaxResults(1).Context(ctx)

	var resp *youtube.SearchListResponse
	reached, err := c.withBreakerAndRetry(ctx, "search.list(channel)", func() error {
		r, doErr := call.Do()
		if doErr != nil {
			return classifyAPIError(doErr)
		}
		resp = r
		return nil
	})
	if reached {
		tracker.record(Cost.Search)
	}
	if err != nil {
		return ChannelInfo{}, err
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.ChannelId == "" {
		return ChannelInfo{}, ingesterrors.NewResourceNotFound("no channel matched search", map[string]any{"query": query})
	}

	return c.channelByID(ctx, tracker, resp.Items[0].Id.ChannelId)
}

func (c *Client) doChannelsList(ctx context.Context, tracker *QuotaTracker, call *youtube.ChannelsListCall) (*youtube.ChannelListResponse, error) {
	var resp *youtube.ChannelListResponse
	reached, err := c.withBreakerAndRetry(ctx, "channels.list", func() error {
		r, doErr := call.Do()
		if doErr != nil {
			return classifyAPIError(doErr)
		}
		resp = r
		return nil
	})
	if reached {
		tracker.record(Cost.List)
	}
	return resp, err
}

func firstChannel(resp *youtube.ChannelListResponse) (ChannelInfo, error) {
	if resp == nil || len(resp.Items) == 0 {
		return ChannelInfo{}, ingesterrors.NewResourceNotFound("channel not found", nil)
	}
	ch := resp.Items[0]
	info := ChannelInfo{ChannelID: ch.Id}
	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
	}
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		info.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
	}
	return info, nil
}

func cacheGetAsInfo(store cache.Store, key string) (ChannelInfo, bool) {
	return cache.GetAs[ChannelInfo](store, key)
}

func cacheGetAsNotFound(store cache.Store, key string) (notFoundSentinel, bool) {
	return cache.GetAs[notFoundSentinel](store, key)
}
