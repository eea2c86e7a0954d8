package optimistic

import "github.com/dangerclosesec/liaison/sdk/client"

func find[T any, P Record[T]](rows []T, id string) (*T, bool) {
	for i := range rows {
		if P(&rows[i]).RecordID() == id {
			row := rows[i]
			return &row, true
		}
	}
	return nil, false
}

// resolve looks id up in rows. An empty id resolves to nothing.
func resolve[T any, P Record[T]](field, id string, rows []T) (*T, error) {
	if id == "" {
		return nil, nil
	}
	row, ok := find[T, P](rows, id)
	if !ok {
		return nil, &ResolutionError{Field: field, ID: id}
	}
	return row, nil
}

func DecorateTeam(companies []client.Company) Decorator[client.Team] {
	return func(t *client.Team) error {
		c, err := resolve[client.Company]("companyId", t.CompanyID, companies)
		if err != nil {
			return err
		}
		t.Company = c
		return nil
	}
}

// DecorateLiaisonRequest attaches the originating client request and the
// supplier company.
func DecorateLiaisonRequest(clientRequests []client.ClientRequest, companies []client.Company) Decorator[client.LiaisonRequest] {
	return func(r *client.LiaisonRequest) error {
		cr, err := resolve[client.ClientRequest]("originatingClientRequestId", r.OriginatingClientRequestID, clientRequests)
		if err != nil {
			return err
		}
		c, err := resolve[client.Company]("forwardedToSupplierId", r.ForwardedToSupplierID, companies)
		if err != nil {
			return err
		}
		r.ClientRequest = cr
		r.Company = c
		return nil
	}
}

func DecorateSupplierResponse(liaisonRequests []client.LiaisonRequest) Decorator[client.SupplierResponse] {
	return func(r *client.SupplierResponse) error {
		lr, err := resolve[client.LiaisonRequest]("respondsToLiaisonRequestId", r.RespondsToLiaisonRequestID, liaisonRequests)
		if err != nil {
			return err
		}
		r.LiaisonRequest = lr
		return nil
	}
}

func DecorateLiaisonResponse(supplierResponses []client.SupplierResponse, clientRequests []client.ClientRequest) Decorator[client.LiaisonResponse] {
	return func(r *client.LiaisonResponse) error {
		sr, err := resolve[client.SupplierResponse]("originatingSupplierResponseId", r.OriginatingSupplierResponseID, supplierResponses)
		if err != nil {
			return err
		}
		cr, err := resolve[client.ClientRequest]("respondsToClientRequestId", r.RespondsToClientRequestID, clientRequests)
		if err != nil {
			return err
		}
		r.SupplierResponse = sr
		r.ClientRequest = cr
		return nil
	}
}

func DecorateUsersToCompany(companies []client.Company) Decorator[client.UsersToCompany] {
	return func(m *client.UsersToCompany) error {
		c, err := resolve[client.Company]("companyId", m.CompanyID, companies)
		if err != nil {
			return err
		}
		m.Company = c
		return nil
	}
}

func DecorateUsersToTeam(teams []client.Team) Decorator[client.UsersToTeam] {
	return func(m *client.UsersToTeam) error {
		t, err := resolve[client.Team]("teamId", m.TeamID, teams)
		if err != nil {
			return err
		}
		m.Team = t
		return nil
	}
}
