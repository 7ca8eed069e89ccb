package valueobject

import "strings"

// MessageContent 消息内容值对象（不可变）
type MessageContent struct {
	text        string
	contentType ContentType
	mediaRef    string
}

// ContentType 内容类型
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// ParseContentType maps a wire value to a ContentType. Empty input means
// text; anything unknown is rejected.
func ParseContentType(raw string) (ContentType, bool) {
	switch ContentType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ContentTypeText:
		return ContentTypeText, true
	case ContentTypeImage:
		return ContentTypeImage, true
	default:
		return "", false
	}
}

// NewMessageContent 创建消息内容值对象
func NewMessageContent(text string, contentType ContentType) MessageContent {
	return MessageContent{
		text:        text,
		contentType: contentType,
	}
}

// NewMessageContentWithMedia creates content that references a media
// payload (data URL, base64 blob or http URL).
func NewMessageContentWithMedia(text string, contentType ContentType, mediaRef string) MessageContent {
	return MessageContent{
		text:        text,
		contentType: contentType,
		mediaRef:    mediaRef,
	}
}

// Text 返回文本内容
func (mc MessageContent) Text() string {
	return mc.text
}

// ContentType 返回内容类型
func (mc MessageContent) ContentType() ContentType {
	return mc.contentType
}

// MediaRef returns the media reference, empty when there is none.
func (mc MessageContent) MediaRef() string {
	return mc.mediaRef
}

// HasMedia 判断是否有附件
func (mc MessageContent) HasMedia() bool {
	return mc.mediaRef != ""
}

// IsImage reports whether the content is an image turn.
func (mc MessageContent) IsImage() bool {
	return mc.contentType == ContentTypeImage
}

// Equals 值对象相等性比较
func (mc MessageContent) Equals(other MessageContent) bool {
	return mc.text == other.text &&
		mc.contentType == other.contentType &&
		mc.mediaRef == other.mediaRef
}
