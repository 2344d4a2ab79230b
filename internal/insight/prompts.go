package insight

const repoSystemPrompt = `You are a senior software engineer reviewing an unfamiliar GitHub repository.
You are given its file list and a sample of representative source files.
Identify the technologies actually in use, summarize how the code is organized,
rate the overall quality from 1.0 to 5.0, and list up to 20 notable code elements
(functions, classes or types, and important variables) with the file they live in.
Only report elements that appear in the provided sources.`

const repoPrompt = `Repository: %s
Description: %s
Primary language: %s
Stars: %d
Commits: %d

FILE LIST (%d entries%s):
%s

SAMPLED FILES:
%s`

const profileSystemPrompt = `You are a technical recruiter and open source maintainer assessing a developer's
public GitHub profile. Be concrete and base every statement on the data provided.

Compute healthScore (0-100) with this weighting:
- Profile completeness (bio, display name, avatar): 20%
- Repository quality (descriptions, stars, forks, apparent maintenance): 40%
- Activity and consistency (recent pushes, spread over time): 20%
- Community engagement (followers, forks, collaboration): 20%

For each of the listed top repositories, write a one-sentence pitch and a
qualityScore from 1 to 100, using the repository name exactly as given.
Give 3 to 5 actionable suggestions for improving the profile.`

const profilePrompt = `Developer: %s (%s)
Bio: %s
Followers: %d, following: %d
Public repositories: %d
Member since: %s

LANGUAGES (repositories per primary language):
%s

TOP REPOSITORIES:
%s

OTHER REPOSITORIES:
%s`
