package atlas

// Mutations return a new State and never modify the receiver's slices in
// place. Mutations that reference a missing story, comment or connection id
// return the state unchanged — silent tolerance is the contract for this
// low-stakes, user-facing model.

func (s State) SetIdentity(identity Identity) State {
	next := s
	next.Identity = &identity
	return next
}

// MergeIdentity applies non-empty fields onto the active identity. No-op
// without one.
func (s State) MergeIdentity(avatarSeed, avatarColor string) State {
	if s.Identity == nil {
		return s
	}
	merged := *s.Identity
	if avatarSeed != "" {
		merged.AvatarSeed = avatarSeed
	}
	if avatarColor != "" {
		merged.AvatarColor = avatarColor
	}
	next := s
	next.Identity = &merged
	return next
}

// ClearSession drops the identity and mood log. Stories and connections
// survive: they were never persisted and belong to the process, not the user.
func (s State) ClearSession() State {
	next := s
	next.Identity = nil
	next.Moods = nil
	return next
}

func (s State) PrependStory(story Story) State {
	next := s
	next.Stories = make([]Story, 0, len(s.Stories)+1)
	next.Stories = append(next.Stories, story)
	next.Stories = append(next.Stories, s.Stories...)
	return next
}

// ReviseStory replaces a story's content and analysis in one step. The
// analysis is replaced entirely, never merged.
func (s State) ReviseStory(storyID, content string, analysis *StoryAnalysis) State {
	next := s
	next.Stories = mapStories(s.Stories, storyID, func(story Story) Story {
		story.Content = content
		story.Analysis = analysis
		return story
	})
	return next
}

func (s State) AddComment(storyID string, comment Comment) State {
	next := s
	next.Stories = mapStories(s.Stories, storyID, func(story Story) Story {
		comments := make([]Comment, 0, len(story.Comments)+1)
		comments = append(comments, story.Comments...)
		story.Comments = append(comments, comment)
		return story
	})
	return next
}

func (s State) DeleteComment(storyID, commentID string) State {
	next := s
	next.Stories = mapStories(s.Stories, storyID, func(story Story) Story {
		comments := make([]Comment, 0, len(story.Comments))
		for _, comment := range story.Comments {
			if comment.ID == commentID {
				continue
			}
			comments = append(comments, comment)
		}
		story.Comments = comments
		return story
	})
	return next
}

func (s State) MarkCommentHelpful(storyID, commentID string) State {
	next := s
	next.Stories = mapStories(s.Stories, storyID, func(story Story) Story {
		comments := make([]Comment, len(story.Comments))
		for i, comment := range story.Comments {
			if comment.ID == commentID {
				comment.HelpfulCount++
			}
			comments[i] = comment
		}
		story.Comments = comments
		return story
	})
	return next
}

// UpliftStory bumps the uplift counter. Unbounded and not de-duplicated:
// the same reader may uplift the same story any number of times.
func (s State) UpliftStory(storyID string) State {
	next := s
	next.Stories = mapStories(s.Stories, storyID, func(story Story) Story {
		story.UpliftCount++
		return story
	})
	return next
}

func (s State) AddMood(entry MoodEntry) State {
	next := s
	next.Moods = make([]MoodEntry, 0, len(s.Moods)+1)
	next.Moods = append(next.Moods, entry)
	next.Moods = append(next.Moods, s.Moods...)
	return next
}

func (s State) AddConnection(request ConnectionRequest) State {
	next := s
	next.Connections = make([]ConnectionRequest, 0, len(s.Connections)+1)
	next.Connections = append(next.Connections, s.Connections...)
	next.Connections = append(next.Connections, request)
	return next
}

// SettleConnection moves a PENDING request to CONNECTED or DECLINED. Both
// outcomes are terminal: settled requests ignore further transitions.
func (s State) SettleConnection(requestID, status string) State {
	if status != ConnectionConnected && status != ConnectionDeclined {
		return s
	}
	next := s
	connections := make([]ConnectionRequest, len(s.Connections))
	for i, request := range s.Connections {
		if request.ID == requestID && request.Status == ConnectionPending {
			request.Status = status
		}
		connections[i] = request
	}
	next.Connections = connections
	return next
}

func (s State) ShowCrisis() State {
	next := s
	next.CrisisVisible = true
	return next
}

// DismissCrisis hides the notice and nothing else; story and analysis data
// are untouched.
func (s State) DismissCrisis() State {
	next := s
	next.CrisisVisible = false
	return next
}

func (s State) FindStory(storyID string) (Story, bool) {
	for _, story := range s.Stories {
		if story.ID == storyID {
			return story, true
		}
	}
	return Story{}, false
}

func mapStories(stories []Story, storyID string, apply func(Story) Story) []Story {
	next := make([]Story, len(stories))
	for i, story := range stories {
		if story.ID == storyID {
			story = apply(story)
		}
		next[i] = story
	}
	return next
}
