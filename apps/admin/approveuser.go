package main

import (
	"context"
	"time"

	"github.com/manumittu/unitracker/core"
	"github.com/manumittu/unitracker/core/user"
)

func (cli *commandLine) approveUser(email string, reject bool) error {
	ctx := context.Background()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}

	usr.Status = user.StatusApproved
	if reject {
		usr.Status = user.StatusRejected
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}
