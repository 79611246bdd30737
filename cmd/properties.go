package cmd

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
)

// wellKnownProperties is offered for shell completion. The player accepts any name.
var wellKnownProperties = []string{
	"aid",
	"audio-device",
	"chapter",
	"chapters",
	"core-idle",
	"duration",
	"eof-reached",
	"filename",
	"fullscreen",
	"hwdec",
	"idle-active",
	"loop-file",
	"loop-playlist",
	"media-title",
	"mpv-version",
	"mute",
	"path",
	"pause",
	"percent-pos",
	"playback-time",
	"playlist",
	"playlist-count",
	"playlist-pos",
	"seekable",
	"sid",
	"speed",
	"sub-delay",
	"time-pos",
	"time-remaining",
	"track-list",
	"vid",
	"volume",
	"volume-max",
}

// matchProperties ranks the well-known properties fuzzily matching input, best first.
func matchProperties(input string) []string {
	if input == "" {
		return wellKnownProperties
	}

	ranks := fuzzy.RankFindFold(input, wellKnownProperties)
	sort.Sort(ranks)

	matches := make([]string, len(ranks))
	for i, r := range ranks {
		matches[i] = r.Target
	}
	return matches
}

// completeProperties completes the first n positional arguments as property names.
func completeProperties(n int) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if n >= 0 && len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return matchProperties(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}
