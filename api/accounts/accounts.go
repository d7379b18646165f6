// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"context"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/token"
	"github.com/pkg/errors"
)

type named interface {
	Name() string
	Symbol() string
}

type assetApprover interface {
	Approve(ctx context.Context, caller, spender meter.Address, id uint64) error
}

type amountApprover interface {
	Approve(ctx context.Context, owner, spender meter.Address, amount *big.Int) error
}

type Accounts struct {
	registry *token.Registry
	engine   meter.Address
}

func New(registry *token.Registry, engine meter.Address) *Accounts {
	return &Accounts{
		registry,
		engine,
	}
}

func (a *Accounts) fungible(hexAddr string) (token.Fungible, error) {
	addr, err := meter.ParseAddress(hexAddr)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "token"))
	}
	c, ok := a.registry.Resolve(addr)
	if !ok {
		return nil, utils.NotFound(errors.New("token not found"))
	}
	ft, ok := c.(token.Fungible)
	if !ok {
		return nil, utils.BadRequest(errors.New("token: not fungible"))
	}
	return ft, nil
}

func (a *Accounts) nonFungible(hexAddr string) (token.NonFungible, error) {
	addr, err := meter.ParseAddress(hexAddr)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "registry"))
	}
	c, ok := a.registry.Resolve(addr)
	if !ok {
		return nil, utils.NotFound(errors.New("registry not found"))
	}
	nft, ok := c.(token.NonFungible)
	if !ok {
		return nil, utils.BadRequest(errors.New("registry: not an asset registry"))
	}
	return nft, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	ft, err := a.fungible(mux.Vars(req)["token"])
	if err != nil {
		return err
	}
	bal, err := ft.BalanceOf(req.Context(), addr)
	if err != nil {
		return err
	}
	allowance, err := ft.Allowance(req.Context(), addr, a.engine)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Token:     ft.Address(),
		Balance:   math.HexOrDecimal256(*bal),
		Allowance: math.HexOrDecimal256(*allowance),
	})
}

func (a *Accounts) handleGetContracts(w http.ResponseWriter, req *http.Request) error {
	contracts := a.registry.Contracts()
	result := make([]*Contract, 0, len(contracts))
	for _, c := range contracts {
		item := &Contract{Address: c.Address(), Interfaces: make([]string, 0)}
		if n, ok := c.(named); ok {
			item.Name, item.Symbol = n.Name(), n.Symbol()
		}
		if c.SupportsInterface(token.InterfaceIDERC20) {
			item.Interfaces = append(item.Interfaces, "ERC20")
		}
		if c.SupportsInterface(token.InterfaceIDERC721) {
			item.Interfaces = append(item.Interfaces, "ERC721")
		}
		result = append(result, item)
	}
	return utils.WriteJSON(w, result)
}

func (a *Accounts) handleGetAsset(w http.ResponseWriter, req *http.Request) error {
	nft, err := a.nonFungible(mux.Vars(req)["registry"])
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 0, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	owner, err := nft.OwnerOf(req.Context(), id)
	if err != nil {
		if errors.Is(err, token.ErrUnknownToken) {
			return utils.NotFound(err)
		}
		return err
	}
	approved, err := nft.IsApprovedOrOwner(req.Context(), a.engine, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Asset{
		Registry:         nft.Address(),
		ID:               id,
		Owner:            owner,
		ApprovedToEngine: approved,
	})
}

// handleApprove lets a development account approve the engine.
func (a *Accounts) handleApprove(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var approval Approval
	if err := utils.ParseJSON(req.Body, &approval); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	c, ok := a.registry.Resolve(approval.Token)
	if !ok {
		return utils.NotFound(errors.New("token not found"))
	}

	switch {
	case approval.AssetID != nil:
		approver, ok := c.(assetApprover)
		if !ok {
			return utils.BadRequest(errors.New("token: not an asset registry"))
		}
		err = approver.Approve(req.Context(), addr, a.engine, *approval.AssetID)
	case approval.Amount != nil:
		approver, ok := c.(amountApprover)
		if !ok {
			return utils.BadRequest(errors.New("token: not fungible"))
		}
		err = approver.Approve(req.Context(), addr, a.engine, (*big.Int)(approval.Amount))
	default:
		return utils.BadRequest(errors.New("body: assetId or amount required"))
	}
	if err != nil {
		return utils.Forbidden(err)
	}
	return utils.WriteJSON(w, utils.M{"approved": true})
}

// Mount registers the account routes. POST {address}/approvals grants the
// engine an approval on behalf of address without any authentication, as a
// development node does for its genesis accounts.
func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/contracts").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetContracts))
	sub.Path("/contracts/{registry}/assets/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAsset))
	sub.Path("/{address}/tokens/{token}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/approvals").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(a.handleApprove))
}
