// Package docs registers the OpenAPI description served at /swagger.
//
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/feed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Feed"],
                "summary": "Home feed",
                "operationId": "getFeed",
                "parameters": [
                    {"type": "string", "description": "Viewer ID; anonymous when absent", "name": "X-User-ID", "in": "header"},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TweetListResponse"}},
                    "304": {"description": "Not Modified"},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "504": {"description": "Timeout", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/feed/following": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Feed"],
                "summary": "Following feed",
                "operationId": "getFollowingFeed",
                "parameters": [
                    {"type": "string", "description": "Viewer ID", "name": "X-User-ID", "in": "header"},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TweetListResponse"}},
                    "304": {"description": "Not Modified"}
                }
            }
        },
        "/recommendations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Feed"],
                "summary": "Recommended tweets",
                "operationId": "getRecommendations",
                "parameters": [
                    {"type": "string", "description": "Viewer ID", "name": "X-User-ID", "in": "header"},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TweetListResponse"}},
                    "304": {"description": "Not Modified"}
                }
            }
        },
        "/trends": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Trends"],
                "summary": "Trending hashtags",
                "operationId": "getTrends",
                "parameters": [
                    {"minimum": 1, "type": "integer", "default": 24, "description": "Window length in hours", "name": "window_hours", "in": "query"},
                    {"minimum": 1, "type": "integer", "default": 10, "description": "Max trends", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TrendsResponse"}},
                    "400": {"description": "Invalid window", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tweets": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tweets"],
                "summary": "Post a tweet",
                "operationId": "createTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Safe-retry key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Tweet payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateTweetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Tweet"}},
                    "200": {"description": "Idempotent replay", "schema": {"$ref": "#/definitions/domain.Tweet"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tweets/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Feed"],
                "summary": "Search tweets",
                "operationId": "searchTweets",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query", "required": true},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SearchResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tweets/{id}": {
            "delete": {
                "tags": ["Tweets"],
                "summary": "Delete a tweet",
                "operationId": "deleteTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Not the author", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Tweet not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tweets/{id}/like": {
            "post": {
                "tags": ["Tweets"],
                "summary": "Like a tweet",
                "operationId": "likeTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Already liked", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Tweets"],
                "summary": "Remove a like",
                "operationId": "unlikeTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Not liked", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tweets/{id}/retweet": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Tweets"],
                "summary": "Retweet a tweet",
                "operationId": "retweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Tweet"}},
                    "409": {"description": "Already retweeted", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Tweets"],
                "summary": "Remove a retweet",
                "operationId": "unretweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Original tweet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Not retweeted", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tweets/{id}/reactions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tweets"],
                "summary": "React with an emotion",
                "operationId": "reactToTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true},
                    {"description": "Reaction", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ReactionSummary"}},
                    "400": {"description": "Invalid emotion", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/tweets/{id}/comments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tweets"],
                "summary": "Comments on a tweet",
                "operationId": "listComments",
                "parameters": [
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CommentListResponse"}},
                    "404": {"description": "Tweet not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tweets"],
                "summary": "Comment on a tweet",
                "operationId": "commentOnTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Safe-retry key", "name": "Idempotency-Key", "in": "header"},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true},
                    {"description": "Comment payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Comment"}},
                    "200": {"description": "Idempotent replay", "schema": {"$ref": "#/definitions/domain.Comment"}}
                }
            }
        },
        "/tweets/{id}/bookmark": {
            "post": {
                "tags": ["Tweets"],
                "summary": "Bookmark a tweet",
                "operationId": "bookmarkTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Tweet not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Already bookmarked", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Tweets"],
                "summary": "Remove a bookmark",
                "operationId": "unbookmarkTweet",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Tweet ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Not bookmarked", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/bookmarks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Feed"],
                "summary": "Bookmarked tweets",
                "operationId": "getBookmarks",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TweetListResponse"}},
                    "304": {"description": "Not Modified"},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register a user",
                "operationId": "createUser",
                "parameters": [
                    {"description": "User payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}},
                    "409": {"description": "Username taken", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/tweets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "User timeline",
                "operationId": "getUserTimeline",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TweetListResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/liked-tweets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Tweets liked by a user",
                "operationId": "getLikedTweets",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TweetListResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/retweets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Tweets retweeted by a user",
                "operationId": "getRetweetedTweets",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TweetListResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/follow": {
            "post": {
                "tags": ["Users"],
                "summary": "Follow a user",
                "operationId": "followUser",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "User to follow", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Already following", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Unfollow a user",
                "operationId": "unfollowUser",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "User to unfollow", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Not following", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/followers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Followers of a user",
                "operationId": "getFollowers",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserListResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/following": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Users a user follows",
                "operationId": "getFollowing",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {"maximum": 50, "minimum": 1, "type": "integer", "default": 20, "description": "Max items", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UserListResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/follow-status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Follow status",
                "operationId": "getFollowStatus",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.FollowStatusResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{username}/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Follow counts",
                "operationId": "getUserStats",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserStats"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Notifications"],
                "summary": "List notifications",
                "operationId": "listNotifications",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.NotificationListResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/notifications/count": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Notifications"],
                "summary": "Unread notification count",
                "operationId": "countUnreadNotifications",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UnreadCountResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/notifications/read-all": {
            "put": {
                "produces": ["application/json"],
                "tags": ["Notifications"],
                "summary": "Mark every notification read",
                "operationId": "markAllNotificationsRead",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MarkAllReadResponse"}},
                    "401": {"description": "Missing identity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark one notification read",
                "operationId": "markNotificationRead",
                "parameters": [
                    {"type": "string", "description": "Caller ID", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Notification ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Notification not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.AuthorInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "profile_picture_id": {"type": "string"},
                "bio": {"type": "string"}
            }
        },
        "domain.ReactionSummary": {
            "type": "object",
            "properties": {
                "reaction_count": {"type": "integer"},
                "reactions": {"type": "object", "additionalProperties": {"type": "integer"}},
                "user_reaction": {"type": "string"}
            }
        },
        "domain.RecommendationInfo": {
            "type": "object",
            "properties": {
                "score": {"type": "number"},
                "matched_tags": {"type": "array", "items": {"type": "string"}},
                "preferred_author": {"type": "boolean"},
                "reasons": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.Tweet": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "content": {"type": "string"},
                "author_id": {"type": "string"},
                "author_username": {"type": "string"},
                "created_at": {"type": "string"},
                "like_count": {"type": "integer"},
                "comment_count": {"type": "integer"},
                "retweet_count": {"type": "integer"},
                "is_retweet": {"type": "boolean"},
                "original_tweet_id": {"type": "string"},
                "original_author_username": {"type": "string"},
                "media_id": {"type": "string"},
                "media_type": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.EnrichedTweet": {
            "allOf": [
                {"$ref": "#/definitions/domain.Tweet"},
                {
                    "type": "object",
                    "properties": {
                        "user_liked": {"type": "boolean"},
                        "user_retweeted": {"type": "boolean"},
                        "reactions": {"$ref": "#/definitions/domain.ReactionSummary"},
                        "author_info": {"$ref": "#/definitions/domain.AuthorInfo"},
                        "original_author_info": {"$ref": "#/definitions/domain.AuthorInfo"},
                        "recommendation_info": {"$ref": "#/definitions/domain.RecommendationInfo"}
                    }
                }
            ]
        },
        "domain.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tweet_id": {"type": "string"},
                "author_id": {"type": "string"},
                "author_username": {"type": "string"},
                "content": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Notification": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "recipient_id": {"type": "string"},
                "sender_id": {"type": "string"},
                "sender_username": {"type": "string"},
                "type": {"type": "string", "enum": ["like", "comment", "retweet", "follow", "mention"]},
                "tweet_id": {"type": "string"},
                "tweet_content": {"type": "string"},
                "comment_id": {"type": "string"},
                "comment_content": {"type": "string"},
                "read": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Trend": {
            "type": "object",
            "properties": {
                "tag": {"type": "string"},
                "count": {"type": "integer"},
                "sample_tweets": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"id": {"type": "string"}, "content": {"type": "string"}}}
                }
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "profile_picture_id": {"type": "string"},
                "bio": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.UserStats": {
            "type": "object",
            "properties": {
                "followers_count": {"type": "integer"},
                "following_count": {"type": "integer"}
            }
        },
        "handlers.CommentListResponse": {
            "type": "object",
            "properties": {
                "comments": {"type": "array", "items": {"$ref": "#/definitions/domain.Comment"}},
                "count": {"type": "integer"}
            }
        },
        "handlers.CommentRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string", "example": "Nice one"}}
        },
        "handlers.CreateTweetRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string", "example": "Shipping the new feed today #golang"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "media_id": {"type": "string"},
                "media_type": {"type": "string", "enum": ["image", "video"]}
            }
        },
        "handlers.CreateUserRequest": {
            "type": "object",
            "required": ["username"],
            "properties": {
                "username": {"type": "string", "example": "alice"},
                "bio": {"type": "string"},
                "profile_picture_id": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "tweet not found"}
            }
        },
        "handlers.FollowStatusResponse": {
            "type": "object",
            "properties": {"following": {"type": "boolean"}}
        },
        "handlers.MarkAllReadResponse": {
            "type": "object",
            "properties": {"marked": {"type": "integer"}}
        },
        "handlers.NotificationListResponse": {
            "type": "object",
            "properties": {
                "notifications": {"type": "array", "items": {"$ref": "#/definitions/domain.Notification"}},
                "count": {"type": "integer"}
            }
        },
        "handlers.ReactRequest": {
            "type": "object",
            "required": ["emotion"],
            "properties": {
                "emotion": {"type": "string", "enum": ["happy", "sad", "angry", "surprised", "neutral", "disgust", "fear"]},
                "confidence": {"type": "number", "example": 0.9}
            }
        },
        "handlers.SearchResponse": {
            "type": "object",
            "properties": {
                "tweets": {"type": "array", "items": {"$ref": "#/definitions/domain.EnrichedTweet"}},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        },
        "handlers.TrendsResponse": {
            "type": "object",
            "properties": {
                "trends": {"type": "array", "items": {"$ref": "#/definitions/domain.Trend"}},
                "window_hours": {"type": "integer"}
            }
        },
        "handlers.TweetListResponse": {
            "type": "object",
            "properties": {
                "tweets": {"type": "array", "items": {"$ref": "#/definitions/domain.EnrichedTweet"}},
                "count": {"type": "integer"}
            }
        },
        "handlers.UnreadCountResponse": {
            "type": "object",
            "properties": {"count": {"type": "integer"}}
        },
        "handlers.UserListResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/domain.AuthorInfo"}},
                "count": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Social Feed API",
	Description:      "Feed ranking, recommendation and trend engine for a microblogging backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
