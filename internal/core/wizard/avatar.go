package wizard

import (
	"errors"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
)

// MaxAvatarBytes はアバター画像として受け付ける最大サイズです。
const MaxAvatarBytes = 300 * 1024

var (
	// ErrAvatarTooLarge は画像が上限サイズを超える場合に返却されます。
	ErrAvatarTooLarge = errors.New("wizard: avatar too large")
)

// AvatarTicket は非同期のアバター読み込み 1 回分を識別します。
type AvatarTicket uint64

// BeginAvatar はアバター読み込みの開始を登録します。
// size が上限を超える場合は状態を変えずに ErrAvatarTooLarge を返します。
func (c *Controller) BeginAvatar(st State, size int64) (State, AvatarTicket, error) {
	if size > c.maxAvatarBytes {
		c.notify(employee.MsgAvatarTooLarge)
		return st, 0, ErrAvatarTooLarge
	}
	st.avatarSeq++
	return st, AvatarTicket(st.avatarSeq), nil
}

// CompleteAvatar は読み込み結果を反映します。後から開始された読み込みがある場合、
// 古いチケットの結果は無視され applied=false を返します。
func (c *Controller) CompleteAvatar(st State, ticket AvatarTicket, dataURI string) (State, bool) {
	if ticket == 0 || uint64(ticket) != st.avatarSeq {
		return st, false
	}
	st.Avatar = dataURI
	return st, true
}
