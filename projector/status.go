package projector

import "github.com/gridfeed/gridfeed/model"

// ViewerBan returns the active ban on the viewer's own account, or nil.
// The projector hides banned accounts everywhere else, the status
// surface is where the viewer gets told why their posts vanished.
func ViewerBan(in Input) *model.BanRecord {
	j := newJoined(in)
	account, ok := j.accountById[in.ViewerId]
	if !ok {
		return nil
	}
	return j.banByHandle[account.Handle]
}
